package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
)

// MockResumeValidator is a mock implementation of resume.Validator.
type MockResumeValidator struct {
	mock.Mock
}

func (m *MockResumeValidator) Validate(ctx context.Context, text string) domain.ResumeValidation {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.ResumeValidation)
}
