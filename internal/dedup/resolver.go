package dedup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

type resolver struct {
	repo   port.CandidateRepository
	policy Policy
}

// NewResolver creates a DuplicateResolver backed by the candidate store.
func NewResolver(repo port.CandidateRepository, policy Policy) port.DuplicateResolver {
	return &resolver{repo: repo, policy: policy.withDefaults()}
}

// Resolve runs the exact-file check and, when checkContent is set and the
// parsed name is usable, the weighted content-identity check.
func (r *resolver) Resolve(ctx context.Context, ownerID uuid.UUID, fingerprint string, identity *domain.ParsedCandidate, checkContent bool) (domain.DuplicateVerdict, error) {
	if fingerprint != "" {
		existing, err := r.repo.FindByFingerprint(ctx, ownerID, fingerprint)
		switch {
		case err == nil:
			return domain.DuplicateVerdict{
				Kind:         domain.VerdictExactFile,
				ExistingID:   existing.ID,
				ExistingName: existing.FullName,
				MatchedAt:    existing.CreatedAt,
			}, nil
		case !errors.Is(err, domain.ErrCandidateNotFound):
			return domain.DuplicateVerdict{}, fmt.Errorf("resolver.Resolve: fingerprint lookup: %w", err)
		}
	}

	if !checkContent || identity == nil || !identity.HasUsableName() {
		return domain.NoMatch(), nil
	}

	name := strings.TrimSpace(identity.FullName)
	candidates, err := r.repo.FindByNameSubstring(ctx, ownerID, name)
	if err != nil {
		return domain.DuplicateVerdict{}, fmt.Errorf("resolver.Resolve: name lookup: %w", err)
	}
	if len(candidates) == 0 {
		return domain.NoMatch(), nil
	}

	best, bestScore := -1, score{}
	for i := range candidates {
		s := r.score(identity, &candidates[i])
		if best < 0 || s.better(bestScore) {
			best, bestScore = i, s
		}
	}

	match := candidates[best]
	return domain.DuplicateVerdict{
		Kind:              domain.VerdictContentMatch,
		ExistingID:        match.ID,
		ExistingName:      match.FullName,
		MatchedAt:         match.CreatedAt,
		SimilarityPercent: bestScore.percent,
		IsSamePerson:      bestScore.percent >= r.policy.Threshold,
	}, nil
}

type score struct {
	percent      float64
	contactMatch bool
}

// better ranks contact (email or phone) matches ahead of name-only matches.
func (s score) better(o score) bool {
	if s.contactMatch != o.contactMatch {
		return s.contactMatch
	}
	return s.percent > o.percent
}

func (r *resolver) score(in *domain.ParsedCandidate, existing *domain.Candidate) score {
	var achieved float64
	applicable := r.policy.NameExactWeight

	inName := strings.ToLower(strings.TrimSpace(in.FullName))
	exName := strings.ToLower(strings.TrimSpace(existing.FullName))
	switch {
	case inName == exName:
		achieved += r.policy.NameExactWeight
	case exName != "" && (strings.Contains(exName, inName) || strings.Contains(inName, exName)):
		achieved += r.policy.NameSubstringWeight
	}

	var contact bool
	if email := strings.TrimSpace(in.Email); email != "" {
		applicable += r.policy.EmailWeight
		if strings.EqualFold(email, strings.TrimSpace(existing.Email)) {
			achieved += r.policy.EmailWeight
			contact = true
		}
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		applicable += r.policy.PhoneWeight
		if phone == strings.TrimSpace(existing.Phone) {
			achieved += r.policy.PhoneWeight
			contact = true
		}
	}

	return score{percent: achieved / applicable * 100, contactMatch: contact}
}
