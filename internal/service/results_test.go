package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/evote/internal/model"
)

func TestResults_OrderAndTies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newMemStore()
	ballot := newBallot(st, nil)
	svc := NewResultsService(memCandidates{st}, st)

	openWindow(t, st, t0, time.Hour)
	a := st.addCandidate("a", model.StatusApproved)
	b := st.addCandidate("b", model.StatusApproved)
	st.addCandidate("p", model.StatusPending)
	c := st.addCandidate("c", model.StatusApproved)

	for _, target := range []uuid.UUID{c, c, b, a} {
		require.NoError(t, ballot.CastVote(ctx, st.addVoter(uuid.Must(uuid.NewV4()).String()), target, t0))
	}

	res, err := svc.GetResults(ctx, t0.Add(10*time.Minute))
	require.NoError(t, err)
	require.False(t, res.VotingEnded)
	require.Len(t, res.Candidates, 3)

	got := make([]uuid.UUID, 0, 3)
	for _, s := range res.Candidates {
		got = append(got, s.ID)
	}
	// a and b are tied; registration order breaks the tie
	require.Equal(t, []uuid.UUID{c, a, b}, got)
	require.EqualValues(t, 2, res.Candidates[0].Votes)

	res, err = svc.GetResults(ctx, t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.True(t, res.VotingEnded)
}

func TestResults_NoWindowNoCandidates(t *testing.T) {
	t.Parallel()
	svc := NewResultsService(memCandidates{newMemStore()}, newMemStore())

	res, err := svc.GetResults(context.Background(), t0)
	require.NoError(t, err)
	require.Empty(t, res.Candidates)
	require.False(t, res.VotingEnded)
}

func TestVotingStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newMemStore()
	svc := NewResultsService(memCandidates{st}, st)

	vs, err := svc.GetVotingStatus(ctx, t0)
	require.NoError(t, err)
	require.Equal(t, model.WindowNotSet, vs.Status)
	require.Contains(t, vs.Message, "not been set")
	require.Nil(t, vs.Window.Start)

	openWindow(t, st, t0, time.Hour)
	for at, want := range map[time.Time]model.WindowStatus{
		t0.Add(-time.Second):            model.WindowNotStarted,
		t0:                              model.WindowOpen,
		t0.Add(time.Hour):               model.WindowOpen,
		t0.Add(time.Hour + time.Second): model.WindowClosed,
	} {
		vs, err := svc.GetVotingStatus(ctx, at)
		require.NoError(t, err)
		require.Equal(t, want, vs.Status, at)
		require.Equal(t, vs.Window.Describe(want), vs.Message)
	}
}
