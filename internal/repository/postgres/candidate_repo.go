package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

// CandidateRepo implements CandidateRepository using PostgreSQL.
type CandidateRepo struct{ db *DB }

// NewCandidateRepo constructs a candidate repository.
func NewCandidateRepo(db *DB) *CandidateRepo { return &CandidateRepo{db: db} }

const candidateCols = `id, candidate_id, name, email, pwd_hash, salt, pitch, tagline, votes, status, registered_at`

// Create inserts a new candidate row in the pending state.
func (r *CandidateRepo) Create(ctx context.Context, c *model.Candidate) error {
	const q = `
INSERT INTO candidates (id, candidate_id, name, email, pwd_hash, salt, pitch, tagline, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
RETURNING registered_at`
	err := r.db.Pool.QueryRow(ctx, q, c.ID, c.CandidateID, c.Name, c.Email,
		c.Cred.PwdHash, c.Cred.Salt, c.Pitch, c.Tagline).Scan(&c.RegisteredAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err == nil {
		c.Status = model.StatusPending
		c.Votes = 0
	}
	return err
}

// GetByID selects a candidate by internal key.
func (r *CandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	const q = `SELECT ` + candidateCols + ` FROM candidates WHERE id=$1`
	return scanCandidate(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByCandidateID selects a candidate by public candidate id.
func (r *CandidateRepo) GetByCandidateID(ctx context.Context, candidateID string) (*model.Candidate, error) {
	const q = `SELECT ` + candidateCols + ` FROM candidates WHERE candidate_id=$1`
	return scanCandidate(r.db.Pool.QueryRow(ctx, q, candidateID))
}

// List returns candidates ordered by registration time, optionally filtered by status.
func (r *CandidateRepo) List(ctx context.Context, status *model.ApprovalStatus) ([]model.Candidate, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == nil {
		const q = `SELECT ` + candidateCols + ` FROM candidates ORDER BY registered_at ASC, reg_seq ASC`
		rows, err = r.db.Pool.Query(ctx, q)
	} else {
		const q = `SELECT ` + candidateCols + ` FROM candidates WHERE status=$1 ORDER BY registered_at ASC, reg_seq ASC`
		rows, err = r.db.Pool.Query(ctx, q, string(*status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// SetStatus overwrites the approval status of one candidate.
func (r *CandidateRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	const q = `UPDATE candidates SET status=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateProfile overwrites pitch and tagline.
func (r *CandidateRepo) UpdateProfile(ctx context.Context, id uuid.UUID, pitch, tagline string) error {
	const q = `UPDATE candidates SET pitch=$2, tagline=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, pitch, tagline)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanCandidate(row pgx.Row) (*model.Candidate, error) {
	var (
		c      model.Candidate
		status string
	)
	if err := row.Scan(&c.ID, &c.CandidateID, &c.Name, &c.Email, &c.Cred.PwdHash, &c.Cred.Salt,
		&c.Pitch, &c.Tagline, &c.Votes, &status, &c.RegisteredAt); err != nil {
		return nil, notFound(err)
	}
	c.Status = model.ApprovalStatus(status)
	return &c, nil
}
