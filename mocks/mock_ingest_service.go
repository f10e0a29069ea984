package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
	"resumeflow/internal/service"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) ProcessFile(ctx context.Context, input service.IngestInput) domain.FileOutcome {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.FileOutcome)
}
