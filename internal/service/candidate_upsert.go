package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

// UpsertInput carries one parsed résumé to be reconciled with the store.
// SamePersonID, when non-zero, names a record the duplicate check identified
// as the same person; it is replaced before falling back to create.
type UpsertInput struct {
	OwnerID          uuid.UUID
	BatchID          string
	Fingerprint      string
	Parsed           *domain.ParsedCandidate
	OriginalFilename string
	ResumeFileKey    string
	SamePersonID     int64
}

// UpsertResult identifies the affected record and what was done to it.
type UpsertResult struct {
	CandidateID int64
	Action      domain.UpsertAction
}

// CandidateUpsert applies the create/merge/replace decision to the store.
type CandidateUpsert interface {
	Upsert(ctx context.Context, input UpsertInput) (*UpsertResult, error)
}

type candidateUpsert struct {
	repo port.CandidateRepository
}

// NewCandidateUpsert creates a new CandidateUpsert implementation.
func NewCandidateUpsert(repo port.CandidateRepository) CandidateUpsert {
	return &candidateUpsert{repo: repo}
}

// Upsert resolves in order: same fingerprint merges non-empty fields, same
// email replaces the record and its children, otherwise a record is created.
// Uniqueness conflicts surface as domain.ErrDuplicateFingerprint or
// domain.ErrDuplicateCandidateEmail.
func (u *candidateUpsert) Upsert(ctx context.Context, in UpsertInput) (*UpsertResult, error) {
	incoming := domain.NewCandidateFromParsed(in.OwnerID, in.Parsed)
	incoming.ContentFingerprint = in.Fingerprint
	incoming.SourceBatchID = in.BatchID
	incoming.OriginalFilename = in.OriginalFilename
	incoming.ResumeFileKey = in.ResumeFileKey

	existing, err := u.repo.FindByFingerprint(ctx, in.OwnerID, in.Fingerprint)
	switch {
	case err == nil:
		if err := u.repo.MergeNonEmptyFields(ctx, in.OwnerID, existing.ID, incoming); err != nil {
			return nil, storeError("merge", err)
		}
		return &UpsertResult{CandidateID: existing.ID, Action: domain.UpsertActionMerged}, nil
	case !errors.Is(err, domain.ErrCandidateNotFound):
		return nil, storeError("find by fingerprint", err)
	}

	target := int64(0)
	if incoming.Email != "" {
		existing, err := u.repo.FindByEmail(ctx, in.OwnerID, incoming.Email)
		switch {
		case err == nil:
			target = existing.ID
		case !errors.Is(err, domain.ErrCandidateNotFound):
			return nil, storeError("find by email", err)
		}
	}
	if target == 0 {
		target = in.SamePersonID
	}

	if target != 0 {
		if err := u.repo.ReplaceScalarAndChildren(ctx, in.OwnerID, target, incoming); err != nil {
			return nil, storeError("replace", err)
		}
		return &UpsertResult{CandidateID: target, Action: domain.UpsertActionReplaced}, nil
	}

	if err := u.repo.Create(ctx, incoming); err != nil {
		return nil, storeError("create", err)
	}
	return &UpsertResult{CandidateID: incoming.ID, Action: domain.UpsertActionCreated}, nil
}

// storeError passes conflict sentinels through untouched and wraps the rest.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicateFingerprint) || errors.Is(err, domain.ErrDuplicateCandidateEmail) {
		return err
	}
	return fmt.Errorf("candidateUpsert.%s: %w", op, err)
}
