package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeflow/internal/domain"
)

// MockCandidateService is a mock implementation of service.CandidateService.
type MockCandidateService struct {
	mock.Mock
}

func (m *MockCandidateService) List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error) {
	args := m.Called(ctx, ownerID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Int(1), args.Error(2)
}

func (m *MockCandidateService) GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateService) UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status string) (*domain.Candidate, error) {
	args := m.Called(ctx, ownerID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateService) GetResumeURL(ctx context.Context, ownerID uuid.UUID, id int64) (string, error) {
	args := m.Called(ctx, ownerID, id)
	return args.String(0), args.Error(1)
}
