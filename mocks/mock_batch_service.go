package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
	"resumeflow/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Run(ctx context.Context, input service.BatchInput) (*domain.BatchRun, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}
