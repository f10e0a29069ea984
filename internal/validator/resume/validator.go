// Package resume decides whether extracted text is a résumé by asking the
// generation service for a JSON verdict and checking it against a schema.
package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"resumeflow/internal/domain"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
)

// MinTextChars is the shortest text that is sent for validation at all.
const MinTextChars = 20

const verdictSchema = `{
  "type": "object",
  "required": ["is_resume"],
  "properties": {
    "is_resume": {"type": "boolean"},
    "reasoning": {"type": "string"},
    "missing_elements": {"type": "array", "items": {"type": "string"}}
  }
}`

const (
	reasonTooShort     = "The file appears to be empty or contains too little text to be a valid resume."
	reasonInvalidReply = "Error validating resume content"
	reasonGenFailed    = "Automated validation encountered an error, proceeding with basic validation."
	reasonUnspecified  = "Unable to determine if this is a valid resume."
)

// Validator classifies text as résumé or not.
type Validator interface {
	Validate(ctx context.Context, text string) domain.ResumeValidation
}

type validator struct {
	gen    port.Generator
	schema *jsonschema.Schema
}

// NewValidator compiles the verdict schema and returns a Validator using gen.
func NewValidator(gen port.Generator) (Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("verdict.json", strings.NewReader(verdictSchema)); err != nil {
		return nil, fmt.Errorf("resume.NewValidator: add schema: %w", err)
	}
	schema, err := compiler.Compile("verdict.json")
	if err != nil {
		return nil, fmt.Errorf("resume.NewValidator: compile schema: %w", err)
	}
	return &validator{gen: gen, schema: schema}, nil
}

// Validate never fails. A generator error yields a positive verdict so that
// uploads are not blocked by an unavailable provider; an unreadable reply
// yields a negative one.
func (v *validator) Validate(ctx context.Context, text string) domain.ResumeValidation {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextChars {
		return domain.ResumeValidation{
			IsResume:        false,
			Reasoning:       reasonTooShort,
			MissingElements: []string{"content"},
		}
	}

	out, err := v.gen.Complete(ctx, generation.BuildValidationPrompt(text))
	if err != nil {
		log.Printf("resume.Validate: generation failed: %v", err)
		return domain.ResumeValidation{IsResume: true, Reasoning: reasonGenFailed, MissingElements: []string{}}
	}

	verdict, err := v.decode(out.Text)
	if err != nil {
		log.Printf("resume.Validate: invalid verdict %q: %v", generation.Truncate(out.Text, 200), err)
		return domain.ResumeValidation{
			IsResume:        false,
			Reasoning:       reasonInvalidReply,
			MissingElements: []string{"Could not analyze resume properly"},
		}
	}
	return verdict
}

func (v *validator) decode(reply string) (domain.ResumeValidation, error) {
	data := []byte(stripFences(reply))

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ResumeValidation{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := v.schema.Validate(raw); err != nil {
		return domain.ResumeValidation{}, fmt.Errorf("schema: %w", err)
	}

	var verdict domain.ResumeValidation
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&verdict); err != nil {
		return domain.ResumeValidation{}, fmt.Errorf("decode: %w", err)
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = reasonUnspecified
	}
	if verdict.MissingElements == nil {
		verdict.MissingElements = []string{}
	}
	return verdict, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
