package httpserver

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/service"
)

type fakeAuth struct {
	service.AuthService // unimplemented methods panic

	voter     *model.Voter
	candidate *model.Candidate
	admin     *model.Admin
	err       error
	lastIP    string
}

var testTok = model.Tokens{AccessToken: "tok", ExpiresAt: time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)}

func (f *fakeAuth) RegisterVoter(_ context.Context, name, email, _ string) (*model.Voter, model.Tokens, error) {
	if f.err != nil {
		return nil, model.Tokens{}, f.err
	}
	return &model.Voter{ID: uuid.Must(uuid.NewV4()), VoterID: "VTR-ABCDEFGHI", Name: name, Email: email}, testTok, nil
}

func (f *fakeAuth) RegisterCandidate(_ context.Context, name, email, _, pitch, tagline string) (*model.Candidate, model.Tokens, error) {
	if f.err != nil {
		return nil, model.Tokens{}, f.err
	}
	return &model.Candidate{ID: uuid.Must(uuid.NewV4()), CandidateID: "CND-ABCDEFGHI", Name: name, Email: email,
		Pitch: pitch, Tagline: tagline, Status: model.StatusPending}, testTok, nil
}

func (f *fakeAuth) LoginVoter(_ context.Context, _, _, ip string) (*model.Voter, model.Tokens, error) {
	f.lastIP = ip
	return f.voter, testTok, f.err
}

func (f *fakeAuth) LoginCandidate(_ context.Context, _, _, ip string) (*model.Candidate, model.Tokens, error) {
	f.lastIP = ip
	return f.candidate, testTok, f.err
}

func (f *fakeAuth) LoginAdmin(_ context.Context, _, _, ip string) (*model.Admin, model.Tokens, error) {
	f.lastIP = ip
	return f.admin, testTok, f.err
}

func (f *fakeAuth) Resolve(_ context.Context, p model.Principal) (service.Account, error) {
	switch p.(type) {
	case model.VoterPrincipal:
		return service.Account{Voter: f.voter}, f.err
	case model.CandidatePrincipal:
		return service.Account{Candidate: f.candidate}, f.err
	}
	return service.Account{Admin: f.admin}, f.err
}

type fakeCandidacy struct {
	list        []model.Candidate
	byStatus    map[model.ApprovalStatus][]model.Candidate
	cand        *model.Candidate
	err         error
	approved    []uuid.UUID
	rejected    []uuid.UUID
	lastPitch   string
	lastTagline string
}

func (f *fakeCandidacy) Approve(_ context.Context, id uuid.UUID) error {
	f.approved = append(f.approved, id)
	return f.err
}

func (f *fakeCandidacy) Reject(_ context.Context, id uuid.UUID) error {
	f.rejected = append(f.rejected, id)
	return f.err
}

func (f *fakeCandidacy) UpdateProfile(_ context.Context, _ uuid.UUID, pitch, tagline string) error {
	if f.err != nil {
		return f.err
	}
	f.lastPitch, f.lastTagline = pitch, tagline
	f.cand.Pitch, f.cand.Tagline = pitch, tagline
	return nil
}

func (f *fakeCandidacy) Get(context.Context, uuid.UUID) (*model.Candidate, error) {
	if f.cand == nil {
		return nil, errs.ErrNotFound
	}
	return f.cand, f.err
}

func (f *fakeCandidacy) ListAll(context.Context) ([]model.Candidate, error) { return f.list, f.err }

func (f *fakeCandidacy) ListByStatus(_ context.Context, st model.ApprovalStatus) ([]model.Candidate, error) {
	if !st.Valid() {
		return nil, errs.ErrValidation
	}
	return f.byStatus[st], f.err
}

type fakeElection struct {
	win model.Window
	err error
}

func (f *fakeElection) SetTimings(_ context.Context, start, end time.Time) error {
	if f.err != nil {
		return f.err
	}
	if !end.After(start) {
		return errs.ErrValidation
	}
	f.win = model.Window{Start: &start, End: &end}
	return nil
}

func (f *fakeElection) GetTimings(context.Context) (model.Window, error) { return f.win, f.err }

type vote struct {
	voter, candidate uuid.UUID
	at               time.Time
}

type fakeBallot struct {
	votes []vote
	err   error
}

func (f *fakeBallot) CastVote(_ context.Context, voterID, candidateID uuid.UUID, now time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.votes = append(f.votes, vote{voterID, candidateID, now})
	return nil
}

type fakeResults struct {
	res  model.Results
	vs   model.VotingStatus
	err  error
	boom bool
}

func (f *fakeResults) GetResults(context.Context, time.Time) (model.Results, error) {
	if f.boom {
		panic("results exploded")
	}
	return f.res, f.err
}

func (f *fakeResults) GetVotingStatus(context.Context, time.Time) (model.VotingStatus, error) {
	return f.vs, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }
