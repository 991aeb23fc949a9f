// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/evote/internal/model"
	"github.com/gofrs/uuid/v5"
)

// VoterRepository provides access to voter records.
type VoterRepository interface {
	// Create inserts a new voter. Duplicate email or voter id yields errs.ErrAlreadyExists.
	Create(ctx context.Context, v *model.Voter) error
	// GetByID loads a voter by internal key.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Voter, error)
	// GetByVoterID loads a voter by public voter id.
	GetByVoterID(ctx context.Context, voterID string) (*model.Voter, error)
}

// CandidateRepository provides access to candidate records.
type CandidateRepository interface {
	// Create inserts a new candidate in the pending state.
	Create(ctx context.Context, c *model.Candidate) error
	// GetByID loads a candidate by internal key.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	// GetByCandidateID loads a candidate by public candidate id.
	GetByCandidateID(ctx context.Context, candidateID string) (*model.Candidate, error)
	// List returns candidates in registration order; a nil status means all.
	List(ctx context.Context, status *model.ApprovalStatus) ([]model.Candidate, error)
	// SetStatus overwrites the approval status.
	SetStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
	// UpdateProfile overwrites pitch and tagline only.
	UpdateProfile(ctx context.Context, id uuid.UUID, pitch, tagline string) error
}

// AdminRepository provides access to the singleton admin record.
type AdminRepository interface {
	// CreateIfAbsent inserts the admin unless one exists and reports whether it did.
	CreateIfAbsent(ctx context.Context, a *model.Admin) (bool, error)
	// Get loads the admin record.
	Get(ctx context.Context) (*model.Admin, error)
}
