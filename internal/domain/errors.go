package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrCandidateNotFound       = errors.New("candidate not found")
	ErrInvalidStatus           = errors.New("invalid candidate status")
	ErrInvalidDuplicateMode    = errors.New("invalid duplicate handling mode")
	ErrDuplicateFingerprint    = errors.New("candidate with an identical file already exists")
	ErrDuplicateCandidateEmail = errors.New("candidate with this email already exists")
	ErrDuplicateRejected       = errors.New("duplicate candidate rejected")
	ErrResumeNotAvailable      = errors.New("resume file not available for candidate")

	ErrNoFiles             = errors.New("no files provided")
	ErrTooManyFiles        = errors.New("too many files in batch")
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
	ErrEmptyText           = errors.New("text is empty")
)

// DuplicateRejectedError is returned when the enforcement mode rejects a
// match. It carries the matched record so callers can build a message.
type DuplicateRejectedError struct {
	Verdict DuplicateVerdict
}

func (e *DuplicateRejectedError) Error() string {
	switch e.Verdict.Kind {
	case VerdictExactFile:
		return fmt.Sprintf("Identical file already exists for candidate '%s' (uploaded on %s)",
			e.Verdict.ExistingName, e.Verdict.MatchedAt.Format("2006-01-02"))
	default:
		return fmt.Sprintf("Similar candidate '%s' already exists (%.0f%% match). This appears to be an updated resume of the same person.",
			e.Verdict.ExistingName, e.Verdict.SimilarityPercent)
	}
}

func (e *DuplicateRejectedError) Unwrap() error {
	return ErrDuplicateRejected
}
