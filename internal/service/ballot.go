package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/metrics"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
)

// BallotService casts votes.
type BallotService interface {
	// CastVote records voterID's single vote for candidateID at instant now.
	CastVote(ctx context.Context, voterID, candidateID uuid.UUID, now time.Time) error
}

type BallotServiceImpl struct {
	voters     repository.VoterRepository
	candidates repository.CandidateRepository
	election   repository.ElectionRepository
	ballots    repository.BallotRepository
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewBallotService constructs BallotService. log and m may be nil.
func NewBallotService(
	voters repository.VoterRepository,
	candidates repository.CandidateRepository,
	election repository.ElectionRepository,
	ballots repository.BallotRepository,
	log *zap.Logger,
	m *metrics.Metrics,
) *BallotServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &BallotServiceImpl{
		voters:     voters,
		candidates: candidates,
		election:   election,
		ballots:    ballots,
		log:        log,
		metrics:    m,
	}
}

// CastVote checks, in order: voter exists, voter has not voted, candidate is approved,
// the window is configured, the window is open. The first failing check wins and
// nothing is written. The final write is conditional, so a concurrent cast for the
// same voter that passed the read checks still fails with errs.ErrAlreadyVoted.
func (s *BallotServiceImpl) CastVote(ctx context.Context, voterID, candidateID uuid.UUID, now time.Time) (err error) {
	defer func() {
		if err != nil {
			s.metrics.VoteRejected(rejectionReason(err))
			s.log.Info("vote refused",
				zap.Stringer("voter", voterID),
				zap.Stringer("candidate", candidateID),
				zap.Error(err),
			)
		}
	}()

	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return storeErr(err)
	}
	if voter.HasVoted {
		return errs.ErrAlreadyVoted
	}

	cand, err := s.candidates.GetByID(ctx, candidateID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return fmt.Errorf("%w: candidate not found", errs.ErrInvalidCandidate)
	case err != nil:
		return storeErr(err)
	case cand.Status != model.StatusApproved:
		return fmt.Errorf("%w: candidate is not approved", errs.ErrInvalidCandidate)
	}

	w, err := s.election.GetWindow(ctx)
	if err != nil {
		return storeErr(err)
	}
	switch st := w.Status(now); st {
	case model.WindowNotSet:
		return errs.ErrVotingNotConfigured
	case model.WindowNotStarted, model.WindowClosed:
		return fmt.Errorf("%w: %s", errs.ErrVotingClosed, w.Describe(st))
	}

	if err := s.ballots.RecordVote(ctx, voterID, candidateID); err != nil {
		return storeErr(err)
	}

	s.metrics.VoteCast()
	s.log.Info("vote cast", zap.Stringer("voter", voterID), zap.Stringer("candidate", candidateID))
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "voter_not_found"
	case errors.Is(err, errs.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, errs.ErrInvalidCandidate):
		return "invalid_candidate"
	case errors.Is(err, errs.ErrVotingNotConfigured):
		return "not_configured"
	case errors.Is(err, errs.ErrVotingClosed):
		return "closed"
	default:
		return "error"
	}
}
