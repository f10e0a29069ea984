package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/fingerprint"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
	"resumeflow/internal/resumeparse"
	"resumeflow/internal/validator/resume"
)

// Outcome messages reported per file.
const (
	MsgUnsupportedFormat  = "Unsupported file format. Please upload a PDF, DOCX, or TXT file."
	MsgFileTooLarge       = "File exceeds the maximum allowed size."
	MsgNothingToParse     = "no text extracted; nothing to parse"
	MsgCreated            = "Successfully processed"
	MsgMerged             = "Identical file re-uploaded; existing candidate updated"
	MsgReplaced           = "Existing candidate updated from new resume"
	MsgDuplicateFileHash  = "This file has already been uploaded (duplicate file hash)."
	MsgDuplicateEmail     = "A candidate with this email already exists."
	maxErrorMessageLength = 100
)

// IngestInput is one file of a batch together with its batch context.
type IngestInput struct {
	OwnerID  uuid.UUID
	BatchID  string
	Mode     domain.DuplicateMode
	Document port.RawDocument
}

// IngestService runs the per-file pipeline: fingerprint, extraction,
// structured parsing, duplicate resolution, storage and upsert.
type IngestService interface {
	ProcessFile(ctx context.Context, input IngestInput) domain.FileOutcome
}

type ingestService struct {
	extractor port.TextExtractor
	generator port.Generator
	resolver  port.DuplicateResolver
	upsert    CandidateUpsert
	validator resume.Validator
	storage   port.ObjectStorage
	s3Cfg     *config.S3Config
	now       func() time.Time
}

// NewIngestService creates a new IngestService. validator and storage may be
// nil, which disables content validation and original-file storage.
func NewIngestService(
	extractor port.TextExtractor,
	generator port.Generator,
	resolver port.DuplicateResolver,
	upsert CandidateUpsert,
	validator resume.Validator,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
) IngestService {
	return &ingestService{
		extractor: extractor,
		generator: generator,
		resolver:  resolver,
		upsert:    upsert,
		validator: validator,
		storage:   storage,
		s3Cfg:     s3Cfg,
		now:       time.Now,
	}
}

// ProcessFile never returns an error: every failure is reported in the
// outcome of this file only.
func (s *ingestService) ProcessFile(ctx context.Context, in IngestInput) domain.FileOutcome {
	doc := in.Document
	out := domain.FileOutcome{Filename: doc.Filename}

	if doc.FileType == "" {
		ft, err := extract.DetectFileType(doc.Filename)
		if err != nil {
			return failed(out, MsgUnsupportedFormat)
		}
		doc.FileType = ft
	}
	if doc.TooLarge {
		return failed(out, MsgFileTooLarge)
	}

	fp, err := fingerprint.Compute(bytes.NewReader(doc.Data))
	if err != nil {
		return failed(out, "Failed to calculate file hash")
	}

	extraction, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		log.Printf("ingestService.ProcessFile: extract %s: %v", doc.Filename, err)
		return failed(out, "Error extracting text: "+truncateMessage(err.Error()))
	}
	if strings.TrimSpace(extraction.Text) == "" {
		out.Status = domain.OutcomeSuccess
		out.Message = MsgNothingToParse
		return out
	}
	if extraction.PossiblyFailed {
		log.Printf("ingestService.ProcessFile: %s yielded %d chars, extraction may have failed", doc.Filename, len(extraction.Text))
	}

	if s.validator != nil {
		verdict := s.validator.Validate(ctx, extraction.Text)
		if !verdict.IsResume {
			msg := "File does not appear to be a resume: " + verdict.Reasoning
			if len(verdict.MissingElements) > 0 {
				msg += " Missing: " + strings.Join(verdict.MissingElements, ", ") + "."
			}
			return failed(out, msg)
		}
	}

	completion, err := s.generator.Complete(ctx, generation.BuildExtractionPrompt(extraction.Text))
	if err != nil {
		log.Printf("ingestService.ProcessFile: generation for %s: %v", doc.Filename, err)
		return failed(out, "Error parsing resume: "+truncateMessage(err.Error()))
	}
	parsed := resumeparse.Parse(completion.Text)

	var samePersonID int64
	if in.Mode != domain.DuplicateModeAllowAll {
		verdict, err := s.resolver.Resolve(ctx, in.OwnerID, fp, &parsed, in.Mode.ChecksContent())
		if err != nil {
			log.Printf("ingestService.ProcessFile: resolve %s: %v", doc.Filename, err)
			return failed(out, "Error checking duplicates: "+truncateMessage(err.Error()))
		}
		if verdict.Kind == domain.VerdictContentMatch && verdict.IsSamePerson {
			if in.Mode == domain.DuplicateModeStrict {
				rejected := &domain.DuplicateRejectedError{Verdict: verdict}
				id := verdict.ExistingID
				out.Status = domain.OutcomeDuplicate
				out.ExistingCandidateID = &id
				out.Message = rejected.Error()
				return out
			}
			samePersonID = verdict.ExistingID
		}
	}

	key, err := s.storeOriginal(ctx, in.OwnerID, doc)
	if err != nil {
		log.Printf("ingestService.ProcessFile: storing %s: %v", doc.Filename, err)
		return failed(out, "Failed to upload file to storage")
	}

	res, err := s.upsert.Upsert(ctx, UpsertInput{
		OwnerID:          in.OwnerID,
		BatchID:          in.BatchID,
		Fingerprint:      fp,
		Parsed:           &parsed,
		OriginalFilename: doc.Filename,
		ResumeFileKey:    key,
		SamePersonID:     samePersonID,
	})
	if err != nil {
		s.discardOriginal(key)
		switch {
		case errors.Is(err, domain.ErrDuplicateFingerprint):
			out.Status = domain.OutcomeDuplicate
			out.Message = MsgDuplicateFileHash
		case errors.Is(err, domain.ErrDuplicateCandidateEmail):
			out.Status = domain.OutcomeDuplicate
			out.Message = MsgDuplicateEmail
		default:
			log.Printf("ingestService.ProcessFile: upsert %s: %v", doc.Filename, err)
			return failed(out, "Database error: "+truncateMessage(err.Error()))
		}
		return out
	}

	id := res.CandidateID
	out.Status = domain.OutcomeSuccess
	out.Action = res.Action
	out.CandidateID = &id
	switch res.Action {
	case domain.UpsertActionMerged:
		out.Message = MsgMerged
	case domain.UpsertActionReplaced:
		out.Message = MsgReplaced
	default:
		out.Message = MsgCreated
	}
	return out
}

// storeOriginal uploads the source file and returns its object key. It is a
// no-op returning "" when no storage is configured.
func (s *ingestService) storeOriginal(ctx context.Context, ownerID uuid.UUID, doc port.RawDocument) (string, error) {
	if s.storage == nil || s.s3Cfg == nil || s.s3Cfg.Bucket == "" {
		return "", nil
	}
	key := ResumeObjectKey(ownerID, doc.Filename, s.now())
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(doc.Data),
		ContentType: domain.AllowedFileTypes[doc.FileType],
		Size:        int64(len(doc.Data)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return key, nil
}

// discardOriginal removes an object stored for a file whose upsert failed.
func (s *ingestService) discardOriginal(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
		log.Printf("ingestService.discardOriginal: %s: %v", key, err)
	}
}

// ResumeObjectKey builds the storage key for an uploaded résumé:
// owners/{owner}/resumes/{base}_{yyyymmdd_hhmmss}_{short-id}{ext}.
func ResumeObjectKey(ownerID uuid.UUID, filename string, at time.Time) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	return fmt.Sprintf("owners/%s/resumes/%s_%s_%s%s",
		ownerID, base, at.UTC().Format("20060102_150405"), uuid.New().String()[:8], strings.ToLower(ext))
}

func failed(out domain.FileOutcome, msg string) domain.FileOutcome {
	out.Status = domain.OutcomeError
	out.Message = msg
	return out
}

// truncateMessage caps s at maxErrorMessageLength bytes without splitting a rune.
func truncateMessage(s string) string {
	if len(s) <= maxErrorMessageLength {
		return s
	}
	cut := maxErrorMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
