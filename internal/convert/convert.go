// Package convert maps domain values to API bodies and back.
package convert

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/evote/internal/api"
	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

// --- helpers ---

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// ParseID parses a record id taken from a path or body.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", errs.ErrValidation, s)
	}
	return id, nil
}

// --- accounts ---

// ToVoter converts a voter record; credentials never leave the server.
func ToVoter(v *model.Voter) *api.Voter {
	if v == nil {
		return nil
	}
	out := &api.Voter{
		ID:           v.ID.String(),
		VoterID:      v.VoterID,
		Name:         v.Name,
		Email:        v.Email,
		HasVoted:     v.HasVoted,
		RegisteredAt: v.RegisteredAt.UTC(),
	}
	if v.VotedCandidate != nil {
		s := v.VotedCandidate.String()
		out.VotedCandidate = &s
	}
	return out
}

// ToCandidate converts a candidate record including its email.
func ToCandidate(c *model.Candidate) *api.Candidate {
	if c == nil {
		return nil
	}
	return &api.Candidate{
		ID:           c.ID.String(),
		CandidateID:  c.CandidateID,
		Name:         c.Name,
		Email:        c.Email,
		Pitch:        c.Pitch,
		Tagline:      c.Tagline,
		Votes:        c.Votes,
		Status:       string(c.Status),
		RegisteredAt: c.RegisteredAt.UTC(),
	}
}

// ToCandidates converts a list. Public listings drop emails.
func ToCandidates(cs []model.Candidate, public bool) []api.Candidate {
	out := make([]api.Candidate, 0, len(cs))
	for i := range cs {
		c := ToCandidate(&cs[i])
		if public {
			c.Email = ""
		}
		out = append(out, *c)
	}
	return out
}

func ToAdmin(a *model.Admin) *api.Admin {
	if a == nil {
		return nil
	}
	return &api.Admin{ID: a.ID.String(), Email: a.Email}
}

// ToAuthResponse bundles an issued token with the account it belongs to.
func ToAuthResponse(tok model.Tokens, acc api.Account) api.AuthResponse {
	return api.AuthResponse{Token: tok.AccessToken, ExpiresAt: tok.ExpiresAt.UTC(), Account: acc}
}

// --- election ---

func ToTimings(w model.Window) api.VotingTimings {
	return api.VotingTimings{VotingStartTime: utc(w.Start), VotingEndTime: utc(w.End)}
}

// FromTimings extracts the requested bounds; both are required.
func FromTimings(in api.VotingTimings) (start, end time.Time, err error) {
	if in.VotingStartTime == nil || in.VotingEndTime == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: votingStartTime and votingEndTime are required", errs.ErrValidation)
	}
	return *in.VotingStartTime, *in.VotingEndTime, nil
}

func ToVotingStatus(vs model.VotingStatus) api.VotingStatus {
	return api.VotingStatus{
		Status:        string(vs.Status),
		Message:       vs.Message,
		VotingTimings: ToTimings(vs.Window),
	}
}

func ToResults(r model.Results) api.Results {
	out := api.Results{Candidates: make([]api.Standing, 0, len(r.Candidates)), VotingEnded: r.VotingEnded}
	for _, s := range r.Candidates {
		out.Candidates = append(out.Candidates, api.Standing{
			ID:          s.ID.String(),
			CandidateID: s.CandidateID,
			Name:        s.Name,
			Tagline:     s.Tagline,
			Votes:       s.Votes,
		})
	}
	return out
}
