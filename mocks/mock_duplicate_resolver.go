package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
)

// MockDuplicateResolver is a mock implementation of port.DuplicateResolver.
type MockDuplicateResolver struct {
	mock.Mock
}

func (m *MockDuplicateResolver) Resolve(ctx context.Context, ownerID uuid.UUID, fingerprint string, identity *domain.ParsedCandidate, checkContent bool) (domain.DuplicateVerdict, error) {
	args := m.Called(ctx, ownerID, fingerprint, identity, checkContent)
	return args.Get(0).(domain.DuplicateVerdict), args.Error(1)
}
