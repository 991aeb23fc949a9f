package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/evote/internal/model"
)

// ElectionRepo implements ElectionRepository using PostgreSQL.
type ElectionRepo struct{ db *DB }

// NewElectionRepo constructs an election configuration repository.
func NewElectionRepo(db *DB) *ElectionRepo { return &ElectionRepo{db: db} }

// GetWindow returns the configured window. No row means nothing is configured.
func (r *ElectionRepo) GetWindow(ctx context.Context) (model.Window, error) {
	const q = `SELECT voting_start, voting_end FROM election WHERE singleton`
	var start, end *time.Time
	err := r.db.Pool.QueryRow(ctx, q).Scan(&start, &end)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return model.Window{}, nil
	case err != nil:
		return model.Window{}, err
	}
	return model.Window{Start: start, End: end}, nil
}

// SetWindow upserts both bounds in a single statement.
func (r *ElectionRepo) SetWindow(ctx context.Context, start, end time.Time) error {
	const q = `
INSERT INTO election (singleton, voting_start, voting_end, updated_at)
VALUES (true, $1, $2, now())
ON CONFLICT (singleton)
DO UPDATE SET voting_start=EXCLUDED.voting_start, voting_end=EXCLUDED.voting_end, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, start, end)
	return err
}
