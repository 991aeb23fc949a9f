package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
)

// memStore is an in-memory implementation of every repository used by the services.
type memStore struct {
	mu         sync.Mutex
	voters     map[uuid.UUID]*model.Voter
	candidates []*model.Candidate
	admin      *model.Admin
	window     model.Window
	clock      time.Time

	err error // returned by every call when set
}

var (
	_ repository.VoterRepository    = (*memStore)(nil)
	_ repository.AdminRepository    = (*memStore)(nil)
	_ repository.ElectionRepository = (*memStore)(nil)
	_ repository.BallotRepository   = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		voters: map[uuid.UUID]*model.Voter{},
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) Create(_ context.Context, v *model.Voter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, o := range m.voters {
		if o.Email == v.Email || o.VoterID == v.VoterID {
			return errs.ErrAlreadyExists
		}
	}
	v.RegisteredAt = m.tick()
	cpy := *v
	m.voters[v.ID] = &cpy
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Voter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.voters[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *v
	return &cpy, nil
}

func (m *memStore) GetByVoterID(_ context.Context, voterID string) (*model.Voter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.voters {
		if v.VoterID == voterID {
			cpy := *v
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

// memCandidates exposes the candidate table; its GetByID and Create differ from the voter ones.
type memCandidates struct{ *memStore }

var _ repository.CandidateRepository = memCandidates{}

func (m memCandidates) Create(_ context.Context, c *model.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, o := range m.candidates {
		if o.Email == c.Email || o.CandidateID == c.CandidateID {
			return errs.ErrAlreadyExists
		}
	}
	c.Status = model.StatusPending
	c.RegisteredAt = m.tick()
	cpy := *c
	m.candidates = append(m.candidates, &cpy)
	return nil
}

func (m memCandidates) find(id uuid.UUID) *model.Candidate {
	for _, c := range m.candidates {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m memCandidates) GetByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c := m.find(id)
	if c == nil {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	return &cpy, nil
}

func (m memCandidates) GetByCandidateID(_ context.Context, candidateID string) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.candidates {
		if c.CandidateID == candidateID {
			cpy := *c
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m memCandidates) List(_ context.Context, status *model.ApprovalStatus) ([]model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Candidate{}
	for _, c := range m.candidates {
		if status == nil || c.Status == *status {
			out = append(out, *c)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Candidate) int { return a.RegisteredAt.Compare(b.RegisteredAt) })
	return out, nil
}

func (m memCandidates) SetStatus(_ context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c := m.find(id)
	if c == nil {
		return errs.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m memCandidates) UpdateProfile(_ context.Context, id uuid.UUID, pitch, tagline string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c := m.find(id)
	if c == nil {
		return errs.ErrNotFound
	}
	c.Pitch, c.Tagline = pitch, tagline
	return nil
}

func (m *memStore) CreateIfAbsent(_ context.Context, a *model.Admin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.admin != nil {
		return false, nil
	}
	cpy := *a
	cpy.CreatedAt = m.tick()
	m.admin = &cpy
	return true, nil
}

func (m *memStore) Get(_ context.Context) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.admin == nil {
		return nil, errs.ErrNotFound
	}
	cpy := *m.admin
	return &cpy, nil
}

func (m *memStore) GetWindow(_ context.Context) (model.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Window{}, m.err
	}
	return m.window, nil
}

func (m *memStore) SetWindow(_ context.Context, start, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.window = model.Window{Start: &start, End: &end}
	return nil
}

// RecordVote mirrors the conditional updates of the SQL implementation.
func (m *memStore) RecordVote(_ context.Context, voterID, candidateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	v, ok := m.voters[voterID]
	if !ok || v.HasVoted {
		return errs.ErrAlreadyVoted
	}
	c := memCandidates{m}.find(candidateID)
	if c == nil || c.Status != model.StatusApproved {
		return errs.ErrInvalidCandidate
	}
	v.HasVoted = true
	v.VotedCandidate = &candidateID
	c.Votes++
	return nil
}

// addCandidate registers a candidate directly and returns its id.
func (m *memStore) addCandidate(name string, status model.ApprovalStatus) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	c := &model.Candidate{ID: id, CandidateID: "CND-" + name, Name: name, Email: name + "@x.io", Pitch: "p", Tagline: "t"}
	if err := (memCandidates{m}).Create(context.Background(), c); err != nil {
		panic(err)
	}
	if status != model.StatusPending {
		_ = memCandidates{m}.SetStatus(context.Background(), id, status)
	}
	return id
}

func (m *memStore) addVoter(name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	if err := m.Create(context.Background(), &model.Voter{ID: id, VoterID: "VTR-" + name, Name: name, Email: name + "@x.io"}); err != nil {
		panic(err)
	}
	return id
}

func (m *memStore) votes(id uuid.UUID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memCandidates{m}.find(id).Votes
}
