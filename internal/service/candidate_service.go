package service

import (
	"context"

	"github.com/google/uuid"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

// CandidateService exposes the owner's candidate pool for review.
type CandidateService interface {
	List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error)
	UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status string) (*domain.Candidate, error)
	GetResumeURL(ctx context.Context, ownerID uuid.UUID, id int64) (string, error)
}

type candidateService struct {
	repo    port.CandidateRepository
	storage port.ObjectStorage
	s3Cfg   *config.S3Config
}

// NewCandidateService creates a new CandidateService. storage may be nil, in
// which case no résumé is ever available for download.
func NewCandidateService(repo port.CandidateRepository, storage port.ObjectStorage, s3Cfg *config.S3Config) CandidateService {
	return &candidateService{repo: repo, storage: storage, s3Cfg: s3Cfg}
}

func (s *candidateService) List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error) {
	return s.repo.List(ctx, ownerID, filter, offset, limit)
}

func (s *candidateService) GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *candidateService) UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status string) (*domain.Candidate, error) {
	st, err := domain.ParseCandidateStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, ownerID, id, st); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *candidateService) GetResumeURL(ctx context.Context, ownerID uuid.UUID, id int64) (string, error) {
	c, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if !c.ResumeAvailable() || s.storage == nil || s.s3Cfg == nil {
		return "", domain.ErrResumeNotAvailable
	}
	return s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, c.ResumeFileKey, s.s3Cfg.PresignExpiry)
}
