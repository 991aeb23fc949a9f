package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/evote/internal/api"
	"github.com/and161185/evote/internal/convert"
	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

// --- identity ---

func (s *Server) registerVoter(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterVoterRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	v, tok, err := s.svc.Auth.RegisterVoter(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, convert.ToAuthResponse(tok, api.Account{Role: model.RoleVoter, Voter: convert.ToVoter(v)}))
}

func (s *Server) registerCandidate(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterCandidateRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, tok, err := s.svc.Auth.RegisterCandidate(r.Context(), req.Name, req.Email, req.Password, req.Pitch, req.Tagline)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, convert.ToAuthResponse(tok, api.Account{Role: model.RoleCandidate, Candidate: convert.ToCandidate(c)}))
}

func (s *Server) loginVoter(w http.ResponseWriter, r *http.Request) {
	var req api.LoginVoterRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	v, tok, err := s.svc.Auth.LoginVoter(r.Context(), req.VoterID, req.Password, s.clientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToAuthResponse(tok, api.Account{Role: model.RoleVoter, Voter: convert.ToVoter(v)}))
}

func (s *Server) loginCandidate(w http.ResponseWriter, r *http.Request) {
	var req api.LoginCandidateRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, tok, err := s.svc.Auth.LoginCandidate(r.Context(), req.CandidateID, req.Password, s.clientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToAuthResponse(tok, api.Account{Role: model.RoleCandidate, Candidate: convert.ToCandidate(c)}))
}

func (s *Server) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginAdminRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	a, tok, err := s.svc.Auth.LoginAdmin(r.Context(), req.Email, req.Password, s.clientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToAuthResponse(tok, api.Account{Role: model.RoleAdmin, Admin: convert.ToAdmin(a)}))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	acc, err := s.svc.Auth.Resolve(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, api.Account{
		Role:      p.Role(),
		Voter:     convert.ToVoter(acc.Voter),
		Candidate: convert.ToCandidate(acc.Candidate),
		Admin:     convert.ToAdmin(acc.Admin),
	})
}

// --- voters ---

func (s *Server) approvedCandidates(w http.ResponseWriter, r *http.Request) {
	cs, err := s.svc.Candidacy.ListByStatus(r.Context(), model.StatusApproved)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToCandidates(cs, true))
}

func (s *Server) castVote(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	candidateID, err := convert.ParseID(r.PathValue("candidateId"))
	if err != nil {
		// a malformed id can never name an approved candidate
		s.fail(w, r, errs.ErrInvalidCandidate)
		return
	}
	if err := s.svc.Ballot.CastVote(r.Context(), p.Subject(), candidateID, s.now()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, api.Message{Message: "Vote cast successfully"})
}

// --- candidates ---

func (s *Server) candidateProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	c, err := s.svc.Candidacy.Get(r.Context(), p.Subject())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToCandidate(c))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req api.UpdateProfileRequest
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Candidacy.UpdateProfile(r.Context(), p.Subject(), req.Pitch, req.Tagline); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Candidacy.Get(r.Context(), p.Subject())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToCandidate(c))
}

// --- admin ---

func (s *Server) listCandidates(w http.ResponseWriter, r *http.Request) {
	var (
		cs  []model.Candidate
		err error
	)
	if st := r.URL.Query().Get("status"); st != "" {
		cs, err = s.svc.Candidacy.ListByStatus(r.Context(), model.ApprovalStatus(st))
	} else {
		cs, err = s.svc.Candidacy.ListAll(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToCandidates(cs, false))
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.svc.Candidacy.Approve, "Candidate approved")
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.svc.Candidacy.Reject, "Candidate rejected")
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error, msg string) {
	id, err := convert.ParseID(r.PathValue("id"))
	if err != nil {
		// an id that cannot parse names no candidate
		s.fail(w, r, fmt.Errorf("%w: candidate %q", errs.ErrNotFound, r.PathValue("id")))
		return
	}
	if err := fn(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, api.Message{Message: msg})
}

func (s *Server) setTimings(w http.ResponseWriter, r *http.Request) {
	var req api.VotingTimings
	if err := decode(r, w, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	start, end, err := convert.FromTimings(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Election.SetTimings(r.Context(), start, end); err != nil {
		s.fail(w, r, err)
		return
	}
	s.getTimings(w, r)
}

func (s *Server) getTimings(w http.ResponseWriter, r *http.Request) {
	win, err := s.svc.Election.GetTimings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToTimings(win))
}

// --- results ---

func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Results.GetResults(r.Context(), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToResults(res))
}

func (s *Server) votingStatus(w http.ResponseWriter, r *http.Request) {
	vs, err := s.svc.Results.GetVotingStatus(r.Context(), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, convert.ToVotingStatus(vs))
}
