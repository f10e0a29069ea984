package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
	"resumeflow/internal/service"
	"resumeflow/mocks"
)

func TestResumeService_ParseText(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.MatchedBy(func(req port.CompletionRequest) bool {
		return strings.Contains(req.Prompt, "jane@example.com")
	})).Return(&port.Completion{Text: janeSections}, nil)
	svc := service.NewResumeService(gen, nil, nil)

	got, err := svc.ParseText(context.Background(), "Jane Doe, Go developer, jane@example.com")

	require.NoError(t, err)
	assert.Equal(t, janeSections, got.Raw)
	assert.Equal(t, "Jane Doe", got.Parsed.FullName)
	assert.Equal(t, "jane@example.com", got.Parsed.Email)
	assert.Equal(t, 6, got.Parsed.YearsExperience)
}

func TestResumeService_ParseTextEmpty(t *testing.T) {
	gen := new(mocks.MockGenerator)
	svc := service.NewResumeService(gen, nil, nil)

	_, err := svc.ParseText(context.Background(), " \n ")

	assert.ErrorIs(t, err, domain.ErrEmptyText)
	gen.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestResumeService_ParseTextGenerationError(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
	svc := service.NewResumeService(gen, nil, nil)

	_, err := svc.ParseText(context.Background(), "some text")

	assert.ErrorContains(t, err, "quota exceeded")
}

func TestResumeService_ValidateUnsupportedFormat(t *testing.T) {
	svc := service.NewResumeService(nil, new(mocks.MockTextExtractor), new(mocks.MockResumeValidator))

	v, err := svc.Validate(context.Background(), port.RawDocument{Filename: "photo.jpg"})

	require.NoError(t, err)
	assert.False(t, v.IsResume)
	assert.Equal(t, service.MsgUnsupportedFormat, v.Reasoning)
}

func TestResumeService_ValidateDelegates(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	validator := new(mocks.MockResumeValidator)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.Extraction{Text: "resume body"}, nil)
	want := domain.ResumeValidation{IsResume: true, Reasoning: "Has contact info and experience.", MissingElements: []string{}}
	validator.On("Validate", mock.Anything, "resume body").Return(want)
	svc := service.NewResumeService(nil, extractor, validator)

	v, err := svc.Validate(context.Background(), port.RawDocument{Filename: "cv.txt", Data: []byte("resume body")})

	require.NoError(t, err)
	assert.Equal(t, want, v)
}

func TestResumeService_ValidateExtractionError(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("encrypted pdf"))
	svc := service.NewResumeService(nil, extractor, new(mocks.MockResumeValidator))

	_, err := svc.Validate(context.Background(), port.RawDocument{Filename: "cv.pdf"})

	assert.ErrorContains(t, err, "encrypted pdf")
}
