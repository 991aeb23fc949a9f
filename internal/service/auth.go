package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/evote/internal/crypto"
	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/limiter"
	"github.com/and161185/evote/internal/metrics"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/repository"
	"github.com/and161185/evote/internal/token"
)

const publicIDLen = 9

// Account is the record behind a principal. Exactly one field is set.
type Account struct {
	Voter     *model.Voter
	Candidate *model.Candidate
	Admin     *model.Admin
}

// AuthService provisions and authenticates voters, candidates and the administrator.
type AuthService interface {
	// RegisterVoter creates a voter and signs them in.
	RegisterVoter(ctx context.Context, name, email, password string) (*model.Voter, model.Tokens, error)
	// RegisterCandidate creates a pending candidate and signs them in.
	RegisterCandidate(ctx context.Context, name, email, password, pitch, tagline string) (*model.Candidate, model.Tokens, error)
	// LoginVoter authenticates by public voter id, rate limited by (voter id, ip).
	LoginVoter(ctx context.Context, voterID, password, ip string) (*model.Voter, model.Tokens, error)
	// LoginCandidate authenticates an approved candidate by public candidate id.
	LoginCandidate(ctx context.Context, candidateID, password, ip string) (*model.Candidate, model.Tokens, error)
	// LoginAdmin authenticates the administrator by email.
	LoginAdmin(ctx context.Context, email, password, ip string) (*model.Admin, model.Tokens, error)
	// EnsureAdmin creates the administrator from bootstrap credentials if none exists.
	EnsureAdmin(ctx context.Context, email, password string) error
	// Resolve loads the record a principal refers to.
	Resolve(ctx context.Context, p model.Principal) (Account, error)
}

type AuthServiceImpl struct {
	voters     repository.VoterRepository
	candidates repository.CandidateRepository
	admins     repository.AdminRepository
	tokens     *token.Issuer
	lim        limiter.Limiter
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewAuthService constructs AuthService with required dependencies. A nil limiter disables throttling.
func NewAuthService(
	voters repository.VoterRepository,
	candidates repository.CandidateRepository,
	admins repository.AdminRepository,
	tokens *token.Issuer,
	lim limiter.Limiter,
	log *zap.Logger,
	m *metrics.Metrics,
) *AuthServiceImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{
		voters:     voters,
		candidates: candidates,
		admins:     admins,
		tokens:     tokens,
		lim:        lim,
		log:        log,
		metrics:    m,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", validationf("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", validationf("invalid email %q", email)
	}
	return email, nil
}

func validateAccount(name, email, password string) (string, string, error) {
	if err := checkText("name", name); err != nil {
		return "", "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", validationf("name is required")
	}
	if password == "" {
		return "", "", validationf("password is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}

// RegisterVoter creates a voter with a fresh public voter id.
func (s *AuthServiceImpl) RegisterVoter(ctx context.Context, name, email, password string) (*model.Voter, model.Tokens, error) {
	name, email, err := validateAccount(name, email, password)
	if err != nil {
		return nil, model.Tokens{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, model.Tokens{}, err
	}
	publicID, err := pkgcrypto.PublicID("VTR", publicIDLen)
	if err != nil {
		return nil, model.Tokens{}, err
	}
	cred, err := pkgcrypto.NewCredential(password)
	if err != nil {
		return nil, model.Tokens{}, err
	}

	v := &model.Voter{ID: id, VoterID: publicID, Name: name, Email: email, Cred: cred}
	if err := s.voters.Create(ctx, v); err != nil {
		return nil, model.Tokens{}, storeErr(err)
	}
	tok, err := s.tokens.Issue(model.VoterPrincipal{ID: v.ID})
	if err != nil {
		return nil, model.Tokens{}, err
	}
	s.log.Info("voter registered", zap.String("voter_id", v.VoterID))
	return v, tok, nil
}

// RegisterCandidate creates a candidate awaiting approval.
func (s *AuthServiceImpl) RegisterCandidate(ctx context.Context, name, email, password, pitch, tagline string) (*model.Candidate, model.Tokens, error) {
	name, email, err := validateAccount(name, email, password)
	if err != nil {
		return nil, model.Tokens{}, err
	}
	pitch, tagline, err = normalizeProfile(pitch, tagline)
	if err != nil {
		return nil, model.Tokens{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, model.Tokens{}, err
	}
	publicID, err := pkgcrypto.PublicID("CND", publicIDLen)
	if err != nil {
		return nil, model.Tokens{}, err
	}
	cred, err := pkgcrypto.NewCredential(password)
	if err != nil {
		return nil, model.Tokens{}, err
	}

	c := &model.Candidate{
		ID:          id,
		CandidateID: publicID,
		Name:        name,
		Email:       email,
		Cred:        cred,
		Pitch:       pitch,
		Tagline:     tagline,
		Status:      model.StatusPending,
	}
	if err := s.candidates.Create(ctx, c); err != nil {
		return nil, model.Tokens{}, storeErr(err)
	}
	tok, err := s.tokens.Issue(model.CandidatePrincipal{ID: c.ID})
	if err != nil {
		return nil, model.Tokens{}, err
	}
	s.log.Info("candidate registered", zap.String("candidate_id", c.CandidateID))
	return c, tok, nil
}

// LoginVoter authenticates a voter by public id.
func (s *AuthServiceImpl) LoginVoter(ctx context.Context, voterID, password, ip string) (*model.Voter, model.Tokens, error) {
	var v *model.Voter
	tok, err := s.login(ctx, model.RoleVoter, voterID, password, ip, func() (model.Credential, model.Principal, error) {
		var err error
		v, err = s.voters.GetByVoterID(ctx, strings.ToUpper(strings.TrimSpace(voterID)))
		if err != nil {
			return model.Credential{}, nil, err
		}
		return v.Cred, model.VoterPrincipal{ID: v.ID}, nil
	})
	if err != nil {
		return nil, model.Tokens{}, err
	}
	return v, tok, nil
}

// LoginCandidate authenticates a candidate. Only approved candidates may sign in.
func (s *AuthServiceImpl) LoginCandidate(ctx context.Context, candidateID, password, ip string) (*model.Candidate, model.Tokens, error) {
	var c *model.Candidate
	tok, err := s.login(ctx, model.RoleCandidate, candidateID, password, ip, func() (model.Credential, model.Principal, error) {
		var err error
		c, err = s.candidates.GetByCandidateID(ctx, strings.ToUpper(strings.TrimSpace(candidateID)))
		if err != nil {
			return model.Credential{}, nil, err
		}
		return c.Cred, model.CandidatePrincipal{ID: c.ID}, nil
	})
	if err != nil {
		return nil, model.Tokens{}, err
	}
	if c.Status != model.StatusApproved {
		s.metrics.Login(model.RoleCandidate, "pending")
		return nil, model.Tokens{}, errs.ErrPendingApproval
	}
	return c, tok, nil
}

// LoginAdmin authenticates the administrator by email.
func (s *AuthServiceImpl) LoginAdmin(ctx context.Context, email, password, ip string) (*model.Admin, model.Tokens, error) {
	var a *model.Admin
	tok, err := s.login(ctx, model.RoleAdmin, email, password, ip, func() (model.Credential, model.Principal, error) {
		var err error
		a, err = s.admins.Get(ctx)
		if err != nil {
			return model.Credential{}, nil, err
		}
		if a.Email != strings.ToLower(strings.TrimSpace(email)) {
			return model.Credential{}, nil, errs.ErrNotFound
		}
		return a.Cred, model.AdminPrincipal{ID: a.ID}, nil
	})
	if err != nil {
		return nil, model.Tokens{}, err
	}
	return a, tok, nil
}

// login applies rate limiting by (role+login, ip) around lookup and password check.
// Unknown logins and wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) login(
	ctx context.Context,
	role, login, password, ip string,
	lookup func() (model.Credential, model.Principal, error),
) (model.Tokens, error) {
	key := limiter.Key(role, login)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, key, ipHash)
	if err != nil {
		return model.Tokens{}, storeErr(err)
	}
	if !allowed {
		s.metrics.Login(role, "rate_limited")
		return model.Tokens{}, errs.ErrRateLimited
	}

	cred, p, err := lookup()
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Tokens{}, storeErr(err)
	}
	if err != nil || !pkgcrypto.Matches(cred, password) {
		s.metrics.Login(role, "failure")
		if blocked, _, ferr := s.lim.Failure(ctx, key, ipHash); ferr == nil && blocked {
			s.log.Warn("login blocked", zap.String("role", role))
			return model.Tokens{}, errs.ErrRateLimited
		}
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// best-effort reset
	_ = s.lim.Success(ctx, key, ipHash)

	tok, err := s.tokens.Issue(p)
	if err != nil {
		return model.Tokens{}, err
	}
	s.metrics.Login(role, "success")
	return tok, nil
}

// EnsureAdmin is the idempotent bootstrap run once at startup.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if password == "" {
		return validationf("admin password is required")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	cred, err := pkgcrypto.NewCredential(password)
	if err != nil {
		return err
	}
	created, err := s.admins.CreateIfAbsent(ctx, &model.Admin{ID: id, Email: email, Cred: cred})
	if err != nil {
		return storeErr(err)
	}
	if created {
		s.log.Info("admin account created", zap.String("email", email))
	}
	return nil
}

// Resolve returns the record of the principal's kind.
func (s *AuthServiceImpl) Resolve(ctx context.Context, p model.Principal) (Account, error) {
	switch p := p.(type) {
	case model.VoterPrincipal:
		v, err := s.voters.GetByID(ctx, p.ID)
		return Account{Voter: v}, storeErr(err)
	case model.CandidatePrincipal:
		c, err := s.candidates.GetByID(ctx, p.ID)
		return Account{Candidate: c}, storeErr(err)
	case model.AdminPrincipal:
		a, err := s.admins.Get(ctx)
		if err != nil {
			return Account{}, storeErr(err)
		}
		if a.ID != p.ID {
			return Account{}, errs.ErrNotFound
		}
		return Account{Admin: a}, nil
	}
	return Account{}, errs.ErrUnauthorized
}
