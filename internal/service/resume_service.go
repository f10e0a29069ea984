package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
	"resumeflow/internal/resumeparse"
	"resumeflow/internal/validator/resume"
)

// ParsedText is the structured view of a résumé text that was not stored.
type ParsedText struct {
	Raw    string                 `json:"parsed_data"`
	Parsed domain.ParsedCandidate `json:"structured_data"`
}

// ResumeService offers the stateless résumé utilities.
type ResumeService interface {
	ParseText(ctx context.Context, text string) (*ParsedText, error)
	Validate(ctx context.Context, doc port.RawDocument) (domain.ResumeValidation, error)
}

type resumeService struct {
	generator port.Generator
	extractor port.TextExtractor
	validator resume.Validator
}

// NewResumeService creates a new ResumeService implementation.
func NewResumeService(generator port.Generator, extractor port.TextExtractor, validator resume.Validator) ResumeService {
	return &resumeService{generator: generator, extractor: extractor, validator: validator}
}

func (s *resumeService) ParseText(ctx context.Context, text string) (*ParsedText, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}
	completion, err := s.generator.Complete(ctx, generation.BuildExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("resume.ParseText: %w", err)
	}
	return &ParsedText{Raw: completion.Text, Parsed: resumeparse.Parse(completion.Text)}, nil
}

// Validate extracts doc and classifies it. An unsupported format is reported
// as a negative verdict rather than an error.
func (s *resumeService) Validate(ctx context.Context, doc port.RawDocument) (domain.ResumeValidation, error) {
	if doc.FileType == "" {
		ft, err := extract.DetectFileType(doc.Filename)
		if err != nil {
			return domain.ResumeValidation{
				IsResume:        false,
				Reasoning:       MsgUnsupportedFormat,
				MissingElements: []string{},
			}, nil
		}
		doc.FileType = ft
	}
	extraction, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			return domain.ResumeValidation{}, err
		}
		return domain.ResumeValidation{}, fmt.Errorf("resume.Validate: %w", err)
	}
	return s.validator.Validate(ctx, extraction.Text), nil
}
