package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
)

// ElectionService manages the singleton voting window.
type ElectionService interface {
	// SetTimings replaces both window bounds; end must be strictly after start.
	SetTimings(ctx context.Context, start, end time.Time) error
	// GetTimings returns the current window; unset bounds are nil.
	GetTimings(ctx context.Context) (model.Window, error)
}

type ElectionServiceImpl struct {
	election repository.ElectionRepository
	log      *zap.Logger
}

// NewElectionService constructs ElectionService.
func NewElectionService(election repository.ElectionRepository, log *zap.Logger) *ElectionServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ElectionServiceImpl{election: election, log: log}
}

// SetTimings validates the interval and stores it.
func (s *ElectionServiceImpl) SetTimings(ctx context.Context, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return validationf("start and end time are required")
	}
	if !end.After(start) {
		return validationf("end time must be after start time")
	}
	if err := s.election.SetWindow(ctx, start.UTC(), end.UTC()); err != nil {
		return storeErr(err)
	}
	s.log.Info("voting window set", zap.Time("start", start), zap.Time("end", end))
	return nil
}

// GetTimings returns the stored window.
func (s *ElectionServiceImpl) GetTimings(ctx context.Context) (model.Window, error) {
	w, err := s.election.GetWindow(ctx)
	return w, storeErr(err)
}
