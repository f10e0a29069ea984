package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"resumeflow/internal/domain"
	"resumeflow/internal/port"
)

const candidateColumns = `id, owner_id, full_name, email, phone, location, years_experience,
	content_fingerprint, source_batch_id, original_filename, resume_file_key, status,
	created_at, updated_at`

type candidateRepo struct {
	db *sqlx.DB
}

// NewCandidateRepo creates a new sqlx-backed CandidateRepository.
func NewCandidateRepo(db *sqlx.DB) port.CandidateRepository {
	return &candidateRepo{db: db}
}

type educationRow struct {
	CandidateID int64 `db:"candidate_id"`
	domain.Education
}

type workRow struct {
	CandidateID int64 `db:"candidate_id"`
	domain.WorkExperience
}

type skillRow struct {
	CandidateID int64  `db:"candidate_id"`
	Skill       string `db:"skill"`
}

func (r *candidateRepo) FindByFingerprint(ctx context.Context, ownerID uuid.UUID, fingerprint string) (*domain.Candidate, error) {
	if fingerprint == "" {
		return nil, domain.ErrCandidateNotFound
	}
	c, err := r.getOne(ctx, r.db, "owner_id = ? AND content_fingerprint = ?", ownerID, fingerprint)
	if err != nil {
		return nil, wrap("candidateRepo.FindByFingerprint", err)
	}
	return c, nil
}

func (r *candidateRepo) FindByEmail(ctx context.Context, ownerID uuid.UUID, email string) (*domain.Candidate, error) {
	if email == "" {
		return nil, domain.ErrCandidateNotFound
	}
	c, err := r.getOne(ctx, r.db, "owner_id = ? AND email = ?", ownerID, email)
	if err != nil {
		return nil, wrap("candidateRepo.FindByEmail", err)
	}
	return c, nil
}

func (r *candidateRepo) FindByNameSubstring(ctx context.Context, ownerID uuid.UUID, name string) ([]domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []domain.Candidate{}, nil
	}
	var cands []domain.Candidate
	err := r.db.SelectContext(ctx, &cands, r.db.Rebind(
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE owner_id = ? AND LOWER(full_name) LIKE ? ESCAPE '\'
		 ORDER BY id`),
		ownerID, likePattern(name))
	if err != nil {
		return nil, fmt.Errorf("candidateRepo.FindByNameSubstring: %w", err)
	}
	if cands == nil {
		cands = []domain.Candidate{}
	}
	return cands, nil
}

func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.CandidateStatusPending
	}

	return r.withTx(ctx, "candidateRepo.Create", func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, tx.Rebind(
			`INSERT INTO candidates (
				owner_id, full_name, email, phone, location, years_experience,
				content_fingerprint, source_batch_id, original_filename, resume_file_key,
				status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			c.OwnerID, c.FullName, c.Email, c.Phone, c.Location, c.YearsExperience,
			c.ContentFingerprint, c.SourceBatchID, c.OriginalFilename, c.ResumeFileKey,
			c.Status, c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
		return writeChildren(ctx, tx, c.ID, c)
	})
}

// ReplaceScalarAndChildren overwrites the record's profile with c and
// replaces every child collection. Owner, status and creation time are kept.
func (r *candidateRepo) ReplaceScalarAndChildren(ctx context.Context, ownerID uuid.UUID, id int64, c *domain.Candidate) error {
	return r.withTx(ctx, "candidateRepo.ReplaceScalarAndChildren", func(tx *sqlx.Tx) error {
		existing, err := r.getOne(ctx, tx, "owner_id = ? AND id = ?", ownerID, id)
		if err != nil {
			return err
		}

		fingerprint := c.ContentFingerprint
		if fingerprint == "" {
			fingerprint = existing.ContentFingerprint
		}
		fullName := c.FullName
		if fullName == "" {
			fullName = domain.UnknownCandidateName
		}

		existing.FullName = fullName
		existing.Email = c.Email
		existing.Phone = c.Phone
		existing.Location = c.Location
		existing.YearsExperience = c.YearsExperience
		existing.ContentFingerprint = fingerprint
		existing.SourceBatchID = c.SourceBatchID
		existing.OriginalFilename = c.OriginalFilename
		existing.ResumeFileKey = c.ResumeFileKey
		existing.Education = c.Education
		existing.WorkExperience = c.WorkExperience
		existing.Skills = c.Skills

		if err := updateScalars(ctx, tx, existing); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		if err := writeChildren(ctx, tx, id, existing); err != nil {
			return err
		}
		*c = *existing
		return nil
	})
}

// MergeNonEmptyFields applies domain.Candidate.MergeNonEmpty to the stored
// record and persists the result.
func (r *candidateRepo) MergeNonEmptyFields(ctx context.Context, ownerID uuid.UUID, id int64, c *domain.Candidate) error {
	return r.withTx(ctx, "candidateRepo.MergeNonEmptyFields", func(tx *sqlx.Tx) error {
		existing, err := r.getOne(ctx, tx, "owner_id = ? AND id = ?", ownerID, id)
		if err != nil {
			return err
		}
		if err := loadChildren(ctx, tx, []*domain.Candidate{existing}); err != nil {
			return err
		}

		existing.MergeNonEmpty(c)

		if err := updateScalars(ctx, tx, existing); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		if err := writeChildren(ctx, tx, id, existing); err != nil {
			return err
		}
		*c = *existing
		return nil
	})
}

func (r *candidateRepo) GetByID(ctx context.Context, ownerID uuid.UUID, id int64) (*domain.Candidate, error) {
	c, err := r.getOne(ctx, r.db, "owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return nil, wrap("candidateRepo.GetByID", err)
	}
	if err := loadChildren(ctx, r.db, []*domain.Candidate{c}); err != nil {
		return nil, fmt.Errorf("candidateRepo.GetByID children: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) List(ctx context.Context, ownerID uuid.UUID, filter domain.CandidateFilter, offset, limit int) ([]domain.Candidate, int, error) {
	where, args := filterClause(ownerID, filter)

	var total int
	err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM candidates c WHERE "+where), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("candidateRepo.List count: %w", err)
	}

	var cands []domain.Candidate
	err = r.db.SelectContext(ctx, &cands, r.db.Rebind(
		`SELECT `+qualified("c", candidateColumns)+` FROM candidates c WHERE `+where+`
		 ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`),
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("candidateRepo.List: %w", err)
	}
	if cands == nil {
		cands = []domain.Candidate{}
	}
	if err := loadChildren(ctx, r.db, pointers(cands)); err != nil {
		return nil, 0, fmt.Errorf("candidateRepo.List children: %w", err)
	}
	return cands, total, nil
}

// ListWithProfiles returns every candidate of the owner in insertion order
// with child collections loaded.
func (r *candidateRepo) ListWithProfiles(ctx context.Context, ownerID uuid.UUID) ([]domain.Candidate, error) {
	var cands []domain.Candidate
	err := r.db.SelectContext(ctx, &cands, r.db.Rebind(
		`SELECT `+candidateColumns+` FROM candidates WHERE owner_id = ? ORDER BY id`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("candidateRepo.ListWithProfiles: %w", err)
	}
	if cands == nil {
		cands = []domain.Candidate{}
	}
	if err := loadChildren(ctx, r.db, pointers(cands)); err != nil {
		return nil, fmt.Errorf("candidateRepo.ListWithProfiles children: %w", err)
	}
	return cands, nil
}

func (r *candidateRepo) UpdateStatus(ctx context.Context, ownerID uuid.UUID, id int64, status domain.CandidateStatus) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		"UPDATE candidates SET status = ?, updated_at = ? WHERE owner_id = ? AND id = ?"),
		status, time.Now().UTC(), ownerID, id)
	if err != nil {
		return fmt.Errorf("candidateRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("candidateRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

// withTx runs fn in a transaction. Uniqueness violations are translated to
// domain sentinels; other errors are wrapped with op.
func (r *candidateRepo) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		if conflict := classifyConflict(err); conflict != nil {
			return conflict
		}
		if errors.Is(err, domain.ErrCandidateNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		if conflict := classifyConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("%s commit: %w", op, err)
	}
	return nil
}

func (r *candidateRepo) getOne(ctx context.Context, q sqlx.ExtContext, where string, args ...interface{}) (*domain.Candidate, error) {
	var c domain.Candidate
	err := sqlx.GetContext(ctx, q, &c, q.Rebind("SELECT "+candidateColumns+" FROM candidates WHERE "+where+" LIMIT 1"), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

// wrap annotates err with op unless it is the not-found sentinel.
func wrap(op string, err error) error {
	if errors.Is(err, domain.ErrCandidateNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func updateScalars(ctx context.Context, tx *sqlx.Tx, c *domain.Candidate) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE candidates SET
			full_name = ?, email = ?, phone = ?, location = ?, years_experience = ?,
			content_fingerprint = ?, source_batch_id = ?, original_filename = ?,
			resume_file_key = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`),
		c.FullName, c.Email, c.Phone, c.Location, c.YearsExperience,
		c.ContentFingerprint, c.SourceBatchID, c.OriginalFilename,
		c.ResumeFileKey, c.UpdatedAt,
		c.OwnerID, c.ID)
	return err
}

func deleteChildren(ctx context.Context, tx *sqlx.Tx, id int64) error {
	for _, table := range []string{"candidate_education", "candidate_work_experience", "candidate_skills"} {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+table+" WHERE candidate_id = ?"), id); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func writeChildren(ctx context.Context, tx *sqlx.Tx, id int64, c *domain.Candidate) error {
	for i, e := range c.Education {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO candidate_education (candidate_id, ordinal, degree, institution, graduation_year)
			 VALUES (?, ?, ?, ?, ?)`),
			id, i, e.Degree, e.Institution, e.Year); err != nil {
			return fmt.Errorf("inserting education: %w", err)
		}
	}
	for i, w := range c.WorkExperience {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO candidate_work_experience (candidate_id, ordinal, company, position, duration)
			 VALUES (?, ?, ?, ?, ?)`),
			id, i, w.Company, w.Position, w.Duration); err != nil {
			return fmt.Errorf("inserting work experience: %w", err)
		}
	}
	for i, s := range c.Skills {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO candidate_skills (candidate_id, ordinal, skill) VALUES (?, ?, ?)"),
			id, i, s); err != nil {
			return fmt.Errorf("inserting skill: %w", err)
		}
	}
	return nil
}

// loadChildren fills the child collections of cands with one query per table.
func loadChildren(ctx context.Context, q sqlx.ExtContext, cands []*domain.Candidate) error {
	if len(cands) == 0 {
		return nil
	}
	ids := make([]int64, len(cands))
	byID := make(map[int64]*domain.Candidate, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Education = []domain.Education{}
		c.WorkExperience = []domain.WorkExperience{}
		c.Skills = []string{}
	}

	var edu []educationRow
	if err := selectIn(ctx, q, &edu,
		"SELECT candidate_id, degree, institution, graduation_year FROM candidate_education WHERE candidate_id IN (?) ORDER BY candidate_id, ordinal", ids); err != nil {
		return fmt.Errorf("loading education: %w", err)
	}
	for _, row := range edu {
		c := byID[row.CandidateID]
		c.Education = append(c.Education, row.Education)
	}

	var work []workRow
	if err := selectIn(ctx, q, &work,
		"SELECT candidate_id, company, position, duration FROM candidate_work_experience WHERE candidate_id IN (?) ORDER BY candidate_id, ordinal", ids); err != nil {
		return fmt.Errorf("loading work experience: %w", err)
	}
	for _, row := range work {
		c := byID[row.CandidateID]
		c.WorkExperience = append(c.WorkExperience, row.WorkExperience)
	}

	var skills []skillRow
	if err := selectIn(ctx, q, &skills,
		"SELECT candidate_id, skill FROM candidate_skills WHERE candidate_id IN (?) ORDER BY candidate_id, ordinal", ids); err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}
	for _, row := range skills {
		c := byID[row.CandidateID]
		c.Skills = append(c.Skills, row.Skill)
	}
	return nil
}

func selectIn(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, ids []int64) error {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

// filterClause builds the WHERE clause for List. Text filters are
// case-insensitive substring matches.
func filterClause(ownerID uuid.UUID, f domain.CandidateFilter) (string, []interface{}) {
	conds := []string{"c.owner_id = ?"}
	args := []interface{}{ownerID}

	if f.Status != "" {
		conds = append(conds, "c.status = ?")
		args = append(args, f.Status)
	}
	if f.MinExperience != nil {
		conds = append(conds, "c.years_experience >= ?")
		args = append(args, *f.MinExperience)
	}
	if f.MaxExperience != nil {
		conds = append(conds, "c.years_experience <= ?")
		args = append(args, *f.MaxExperience)
	}
	if f.Location != "" {
		conds = append(conds, `LOWER(c.location) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Location))
	}
	if f.Skill != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM candidate_skills s
			WHERE s.candidate_id = c.id AND LOWER(s.skill) LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(f.Skill))
	}
	if f.Company != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM candidate_work_experience w
			WHERE w.candidate_id = c.id AND LOWER(w.company) LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(f.Company))
	}
	if f.Position != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM candidate_work_experience w
			WHERE w.candidate_id = c.id AND LOWER(w.position) LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(f.Position))
	}
	if f.Education != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM candidate_education e
			WHERE e.candidate_id = c.id
			  AND (LOWER(e.degree) LIKE ? ESCAPE '\' OR LOWER(e.institution) LIKE ? ESCAPE '\'))`)
		p := likePattern(f.Education)
		args = append(args, p, p)
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func qualified(alias, columns string) string {
	fields := strings.Split(columns, ",")
	for i, f := range fields {
		fields[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(fields, ", ")
}

func pointers(cands []domain.Candidate) []*domain.Candidate {
	out := make([]*domain.Candidate, len(cands))
	for i := range cands {
		out[i] = &cands[i]
	}
	return out
}
