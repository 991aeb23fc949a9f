package repository

import (
	"context"
	"time"

	"github.com/and161185/evote/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ElectionRepository stores the singleton voting window.
type ElectionRepository interface {
	// GetWindow returns the configured window; a missing record is an empty window.
	GetWindow(ctx context.Context) (model.Window, error)
	// SetWindow replaces both bounds together, creating the record if absent.
	SetWindow(ctx context.Context, start, end time.Time) error
}

// BallotRepository records votes.
type BallotRepository interface {
	// RecordVote marks the voter as having voted for the candidate and increments
	// the candidate's tally in one atomic unit. It fails with errs.ErrAlreadyVoted
	// when the voter already voted and errs.ErrInvalidCandidate when the candidate
	// is no longer approved; in both cases nothing is written.
	RecordVote(ctx context.Context, voterID, candidateID uuid.UUID) error
}
