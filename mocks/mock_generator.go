package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/port"
)

// MockGenerator is a mock implementation of port.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Complete(ctx context.Context, req port.CompletionRequest) (*port.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Completion), args.Error(1)
}
