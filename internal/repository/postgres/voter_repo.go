package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

// VoterRepo implements VoterRepository using PostgreSQL.
type VoterRepo struct{ db *DB }

// NewVoterRepo constructs a voter repository.
func NewVoterRepo(db *DB) *VoterRepo { return &VoterRepo{db: db} }

const voterCols = `id, voter_id, name, email, pwd_hash, salt, has_voted, voted_candidate, registered_at`

// Create inserts a new voter row.
func (r *VoterRepo) Create(ctx context.Context, v *model.Voter) error {
	const q = `
INSERT INTO voters (id, voter_id, name, email, pwd_hash, salt)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING registered_at`
	err := r.db.Pool.QueryRow(ctx, q, v.ID, v.VoterID, v.Name, v.Email, v.Cred.PwdHash, v.Cred.Salt).
		Scan(&v.RegisteredAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a voter by internal key.
func (r *VoterRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Voter, error) {
	const q = `SELECT ` + voterCols + ` FROM voters WHERE id=$1`
	return scanVoter(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByVoterID selects a voter by public voter id.
func (r *VoterRepo) GetByVoterID(ctx context.Context, voterID string) (*model.Voter, error) {
	const q = `SELECT ` + voterCols + ` FROM voters WHERE voter_id=$1`
	return scanVoter(r.db.Pool.QueryRow(ctx, q, voterID))
}

func scanVoter(row pgx.Row) (*model.Voter, error) {
	var (
		v     model.Voter
		voted uuid.NullUUID
	)
	if err := row.Scan(&v.ID, &v.VoterID, &v.Name, &v.Email, &v.Cred.PwdHash, &v.Cred.Salt,
		&v.HasVoted, &voted, &v.RegisteredAt); err != nil {
		return nil, notFound(err)
	}
	if voted.Valid {
		id := voted.UUID
		v.VotedCandidate = &id
	}
	return &v, nil
}
