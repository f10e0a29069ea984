package resume_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/port"
	"resumeflow/internal/validator/resume"
	"resumeflow/mocks"
)

const resumeText = "Jane Doe\njane@example.com\nSenior Engineer at Acme 2019-2024\nBSc Computer Science"

func newValidator(t *testing.T, gen *mocks.MockGenerator) resume.Validator {
	t.Helper()
	v, err := resume.NewValidator(gen)
	require.NoError(t, err)
	return v
}

func TestValidate_TooShortSkipsGeneration(t *testing.T) {
	gen := new(mocks.MockGenerator)
	v := newValidator(t, gen)

	got := v.Validate(context.Background(), "  hello  ")

	assert.False(t, got.IsResume)
	assert.Equal(t, []string{"content"}, got.MissingElements)
	gen.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestValidate_PlainJSON(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool { return r.JSON })).
		Return(&port.Completion{Text: `{"is_resume": true, "reasoning": "has contact and work history", "missing_elements": []}`}, nil)

	got := newValidator(t, gen).Validate(context.Background(), resumeText)

	assert.True(t, got.IsResume)
	assert.Equal(t, "has contact and work history", got.Reasoning)
	assert.Empty(t, got.MissingElements)
	gen.AssertExpectations(t)
}

func TestValidate_FencedJSONWithDefaults(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.Anything).
		Return(&port.Completion{Text: "```json\n{\"is_resume\": false}\n```"}, nil)

	got := newValidator(t, gen).Validate(context.Background(), resumeText)

	assert.False(t, got.IsResume)
	assert.Equal(t, "Unable to determine if this is a valid resume.", got.Reasoning)
	assert.NotNil(t, got.MissingElements)
}

func TestValidate_SchemaViolation(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.Anything).
		Return(&port.Completion{Text: `{"is_resume": "yes"}`}, nil)

	got := newValidator(t, gen).Validate(context.Background(), resumeText)

	assert.False(t, got.IsResume)
	assert.Equal(t, "Error validating resume content", got.Reasoning)
}

func TestValidate_NotJSON(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.Anything).
		Return(&port.Completion{Text: "Yes, this is a resume."}, nil)

	got := newValidator(t, gen).Validate(context.Background(), resumeText)

	assert.False(t, got.IsResume)
	assert.Equal(t, "Error validating resume content", got.Reasoning)
}

func TestValidate_GenerationErrorDoesNotBlock(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	got := newValidator(t, gen).Validate(context.Background(), resumeText)

	assert.True(t, got.IsResume)
	assert.Empty(t, got.MissingElements)
}
