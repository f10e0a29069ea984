package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc port.RawDocument) (*port.Extraction, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Extraction), args.Error(1)
}
