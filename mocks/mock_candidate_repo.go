package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
)

// MockCandidateRepo is a mock implementation of port.CandidateRepository.
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) FindByFingerprint(ctx context.Context, ownerID uuid.UUID, fingerprint string) (*domain.Candidate, error) {
	args := m.Called(ctx, ownerID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindByEmail(ctx context.Context, ownerID uuid.UUID, email string) (*domain.Candidate, error) {
	args := m.Called(ctx, ownerID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) FindByNameSubstring(ctx context.Context, ownerID uuid.UUID, name string) ([]domain.Candidate, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepo) ReplaceScalarAndChildren(ctx context.Context, ownerID uuid.UUID, id int64, candidate *domain.Candidate) error {
	args := m.Called(ctx, ownerID, id, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepo) MergeNonEmptyFields(ctx context.Context, ownerID uuid.UUID, id int64, candidate *domain.Candidate) error {
	args := m.Called(ctx, ownerID, id, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error) {
	args := m.Called(ctx, ownerID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Int(1), args.Error(2)
}

func (m *MockCandidateRepo) ListWithProfiles(ctx context.Context, ownerID uuid.UUID) ([]domain.Candidate, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status domain.CandidateStatus) error {
	args := m.Called(ctx, ownerID, id, status)
	return args.Error(0)
}
