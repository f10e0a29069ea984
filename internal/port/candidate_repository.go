package port

import (
	"context"

	"github.com/google/uuid"

	"resumeflow/internal/domain"
)

// CandidateRepository is the owner-scoped candidate store. Uniqueness
// violations on fingerprint or email surface as domain.ErrDuplicateFingerprint
// and domain.ErrDuplicateCandidateEmail. Single-record lookups return
// domain.ErrCandidateNotFound when nothing matches.
type CandidateRepository interface {
	FindByFingerprint(ctx context.Context, ownerID uuid.UUID, fingerprint string) (*domain.Candidate, error)
	FindByEmail(ctx context.Context, ownerID uuid.UUID, email string) (*domain.Candidate, error)
	FindByNameSubstring(ctx context.Context, ownerID uuid.UUID, name string) ([]domain.Candidate, error)
	Create(ctx context.Context, candidate *domain.Candidate) error
	ReplaceScalarAndChildren(ctx context.Context, ownerID uuid.UUID, id int64, candidate *domain.Candidate) error
	MergeNonEmptyFields(ctx context.Context, ownerID uuid.UUID, id int64, candidate *domain.Candidate) error

	GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error)
	List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error)
	ListWithProfiles(ctx context.Context, ownerID uuid.UUID) ([]domain.Candidate, error)
	UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status domain.CandidateStatus) error
}

// DuplicateResolver decides whether an incoming résumé matches a stored
// candidate of the same owner.
type DuplicateResolver interface {
	Resolve(ctx context.Context, ownerID uuid.UUID, fingerprint string, identity *domain.ParsedCandidate, checkContent bool) (domain.DuplicateVerdict, error)
}
