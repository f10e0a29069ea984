package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resumeflow/internal/service"
)

// MockCandidateUpsert is a mock implementation of service.CandidateUpsert.
type MockCandidateUpsert struct {
	mock.Mock
}

func (m *MockCandidateUpsert) Upsert(ctx context.Context, input service.UpsertInput) (*service.UpsertResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpsertResult), args.Error(1)
}
