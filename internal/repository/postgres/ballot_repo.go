package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/evote/internal/errs"
)

// BallotRepo implements BallotRepository using PostgreSQL.
type BallotRepo struct{ db *DB }

// NewBallotRepo constructs a ballot repository.
func NewBallotRepo(db *DB) *BallotRepo { return &BallotRepo{db: db} }

// RecordVote flips the voter's has_voted guard and increments the tally in one transaction.
// The guard update serialises concurrent casts for the same voter on the row lock;
// the loser sees zero affected rows.
func (r *BallotRepo) RecordVote(ctx context.Context, voterID, candidateID uuid.UUID) error {
	const markVoter = `
UPDATE voters
SET has_voted = true, voted_candidate = $2
WHERE id = $1 AND has_voted = false`
	const bumpTally = `
UPDATE candidates
SET votes = votes + 1
WHERE id = $1 AND status = 'approved'`

	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, markVoter, voterID, candidateID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrAlreadyVoted
		}
		tag, err = tx.Exec(ctx, bumpTally, candidateID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrInvalidCandidate
		}
		return nil
	})
}
