package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
)

// ResultsService is the read-only tally projection.
type ResultsService interface {
	// GetResults returns approved candidates by votes descending and whether voting ended.
	GetResults(ctx context.Context, now time.Time) (model.Results, error)
	// GetVotingStatus returns the window state at now and its bounds.
	GetVotingStatus(ctx context.Context, now time.Time) (model.VotingStatus, error)
}

type ResultsServiceImpl struct {
	candidates repository.CandidateRepository
	election   repository.ElectionRepository
}

// NewResultsService constructs ResultsService.
func NewResultsService(candidates repository.CandidateRepository, election repository.ElectionRepository) *ResultsServiceImpl {
	return &ResultsServiceImpl{candidates: candidates, election: election}
}

// GetResults ranks approved candidates. Equal tallies keep registration order.
func (s *ResultsServiceImpl) GetResults(ctx context.Context, now time.Time) (model.Results, error) {
	approved := model.StatusApproved
	cs, err := s.candidates.List(ctx, &approved)
	if err != nil {
		return model.Results{}, storeErr(err)
	}
	w, err := s.election.GetWindow(ctx)
	if err != nil {
		return model.Results{}, storeErr(err)
	}

	out := make([]model.Standing, 0, len(cs))
	for _, c := range cs {
		out = append(out, model.Standing{
			ID:          c.ID,
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Tagline:     c.Tagline,
			Votes:       c.Votes,
		})
	}
	slices.SortStableFunc(out, func(a, b model.Standing) int { return cmp.Compare(b.Votes, a.Votes) })

	return model.Results{Candidates: out, VotingEnded: w.Status(now) == model.WindowClosed}, nil
}

// GetVotingStatus reports the window state even when nothing is configured.
func (s *ResultsServiceImpl) GetVotingStatus(ctx context.Context, now time.Time) (model.VotingStatus, error) {
	w, err := s.election.GetWindow(ctx)
	if err != nil {
		return model.VotingStatus{}, storeErr(err)
	}
	st := w.Status(now)
	return model.VotingStatus{Status: st, Message: w.Describe(st), Window: w}, nil
}
