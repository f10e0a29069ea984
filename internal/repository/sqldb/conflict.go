package sqldb

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"resumeflow/internal/domain"
)

const (
	pgUniqueViolation = "23505"

	fingerprintIndex = "uq_candidates_owner_fingerprint"
	emailIndex       = "uq_candidates_owner_email"
)

// classifyConflict maps a uniqueness violation to its domain sentinel. It
// returns nil for any other error.
func classifyConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil
		}
		switch pgErr.ConstraintName {
		case fingerprintIndex:
			return domain.ErrDuplicateFingerprint
		case emailIndex:
			return domain.ErrDuplicateCandidateEmail
		}
		return nil
	}

	// SQLite reports the offending columns, e.g.
	// "UNIQUE constraint failed: candidates.owner_id, candidates.email".
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "candidates.content_fingerprint"):
		return domain.ErrDuplicateFingerprint
	case strings.Contains(msg, "candidates.email"):
		return domain.ErrDuplicateCandidateEmail
	}
	return nil
}
