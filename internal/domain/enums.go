package domain

import "strings"

// FileType represents the résumé formats accepted for ingestion.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileTypeTXT:  "text/plain",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"docx": FileTypeDOCX,
	"txt":  FileTypeTXT,
}

// CandidateStatus is the review state of a candidate record.
type CandidateStatus string

const (
	CandidateStatusPending     CandidateStatus = "pending"
	CandidateStatusShortlisted CandidateStatus = "shortlisted"
	CandidateStatusRejected    CandidateStatus = "rejected"
)

// ParseCandidateStatus validates a status string (case-insensitive).
func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch CandidateStatus(strings.ToLower(strings.TrimSpace(s))) {
	case CandidateStatusPending:
		return CandidateStatusPending, nil
	case CandidateStatusShortlisted:
		return CandidateStatusShortlisted, nil
	case CandidateStatusRejected:
		return CandidateStatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

// DuplicateMode controls how detected duplicates affect ingestion.
type DuplicateMode string

const (
	// DuplicateModeStrict rejects content duplicates of an existing candidate.
	DuplicateModeStrict DuplicateMode = "strict"
	// DuplicateModeAllowUpdates treats every match as an update of the matched record.
	DuplicateModeAllowUpdates DuplicateMode = "allow_updates"
	// DuplicateModeAllowAll skips duplicate detection.
	DuplicateModeAllowAll DuplicateMode = "allow_all"
)

// ParseDuplicateMode validates a mode string. Empty input selects strict.
func ParseDuplicateMode(s string) (DuplicateMode, error) {
	switch DuplicateMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateModeStrict:
		return DuplicateModeStrict, nil
	case DuplicateModeAllowUpdates:
		return DuplicateModeAllowUpdates, nil
	case DuplicateModeAllowAll:
		return DuplicateModeAllowAll, nil
	default:
		return "", ErrInvalidDuplicateMode
	}
}

// ChecksContent reports whether the mode runs the fuzzy identity check.
func (m DuplicateMode) ChecksContent() bool {
	return m == DuplicateModeStrict || m == DuplicateModeAllowUpdates
}

// OutcomeStatus is the per-file result classification of a batch run.
type OutcomeStatus string

const (
	OutcomeSuccess   OutcomeStatus = "success"
	OutcomeDuplicate OutcomeStatus = "duplicate"
	OutcomeError     OutcomeStatus = "error"
)

// UpsertAction records what the upsert stage did to the store.
type UpsertAction string

const (
	UpsertActionCreated  UpsertAction = "created"
	UpsertActionMerged   UpsertAction = "merged"
	UpsertActionReplaced UpsertAction = "replaced"
)

// VerdictKind tags a DuplicateVerdict.
type VerdictKind string

const (
	VerdictNoMatch      VerdictKind = "no_match"
	VerdictExactFile    VerdictKind = "exact_file"
	VerdictContentMatch VerdictKind = "content_match"
)
