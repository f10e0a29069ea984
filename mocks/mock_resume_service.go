package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
	"resumeflow/internal/service"
)

// MockResumeService is a mock implementation of service.ResumeService.
type MockResumeService struct {
	mock.Mock
}

func (m *MockResumeService) ParseText(ctx context.Context, text string) (*service.ParsedText, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParsedText), args.Error(1)
}

func (m *MockResumeService) Validate(ctx context.Context, doc port.RawDocument) (domain.ResumeValidation, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(domain.ResumeValidation), args.Error(1)
}
