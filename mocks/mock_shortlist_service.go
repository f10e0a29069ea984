package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
	"resumeflow/internal/service"
)

// MockShortlistService is a mock implementation of service.ShortlistService.
type MockShortlistService struct {
	mock.Mock
}

func (m *MockShortlistService) Shortlist(ctx context.Context, input service.ShortlistInput) (*domain.ShortlistResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortlistResult), args.Error(1)
}

func (m *MockShortlistService) ShortlistDocument(ctx context.Context, input service.ShortlistInput, doc port.RawDocument) (*domain.ShortlistResult, error) {
	args := m.Called(ctx, input, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortlistResult), args.Error(1)
}
