package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
)

// CandidacyService governs candidate approval status and profiles.
type CandidacyService interface {
	// Approve moves a candidate to Approved. Idempotent.
	Approve(ctx context.Context, id uuid.UUID) error
	// Reject moves a candidate to Rejected. Idempotent.
	Reject(ctx context.Context, id uuid.UUID) error
	// UpdateProfile replaces pitch and tagline without touching approval status.
	UpdateProfile(ctx context.Context, id uuid.UUID, pitch, tagline string) error
	// Get returns one candidate.
	Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	// ListAll returns every candidate, newest registration first.
	ListAll(ctx context.Context) ([]model.Candidate, error)
	// ListByStatus returns candidates in one status, in registration order.
	ListByStatus(ctx context.Context, status model.ApprovalStatus) ([]model.Candidate, error)
}

type CandidacyServiceImpl struct {
	candidates repository.CandidateRepository
	log        *zap.Logger
}

// NewCandidacyService constructs CandidacyService.
func NewCandidacyService(candidates repository.CandidateRepository, log *zap.Logger) *CandidacyServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &CandidacyServiceImpl{candidates: candidates, log: log}
}

// Approve sets the candidate's status to Approved.
func (s *CandidacyServiceImpl) Approve(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, model.StatusApproved)
}

// Reject sets the candidate's status to Rejected.
func (s *CandidacyServiceImpl) Reject(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, model.StatusRejected)
}

// transition only ever targets Approved or Rejected; Pending is never re-entered.
func (s *CandidacyServiceImpl) transition(ctx context.Context, id uuid.UUID, to model.ApprovalStatus) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: empty candidate id", errs.ErrNotFound)
	}
	if err := s.candidates.SetStatus(ctx, id, to); err != nil {
		return storeErr(err)
	}
	s.log.Info("candidate status changed", zap.Stringer("candidate", id), zap.String("status", string(to)))
	return nil
}

// UpdateProfile validates and stores a new pitch and tagline.
func (s *CandidacyServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, pitch, tagline string) error {
	pitch, tagline, err := normalizeProfile(pitch, tagline)
	if err != nil {
		return err
	}
	return storeErr(s.candidates.UpdateProfile(ctx, id, pitch, tagline))
}

// Get loads one candidate.
func (s *CandidacyServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	return c, storeErr(err)
}

// ListAll returns all candidates with the most recent registrations first.
func (s *CandidacyServiceImpl) ListAll(ctx context.Context) ([]model.Candidate, error) {
	cs, err := s.candidates.List(ctx, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	slices.Reverse(cs)
	return cs, nil
}

// ListByStatus returns candidates with the given status.
func (s *CandidacyServiceImpl) ListByStatus(ctx context.Context, status model.ApprovalStatus) ([]model.Candidate, error) {
	if !status.Valid() {
		return nil, validationf("unknown status %q", status)
	}
	cs, err := s.candidates.List(ctx, &status)
	return cs, storeErr(err)
}
