// Package httpserver exposes the election services as a JSON HTTP API.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/evote/internal/api"
	"github.com/and161185/evote/internal/metrics"
	"github.com/and161185/evote/internal/model"
	"github.com/and161185/evote/internal/service"
)

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(tok string) (model.Principal, error)
}

// Pinger reports store reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the application services served over HTTP.
type Services struct {
	Auth      service.AuthService
	Candidacy service.CandidacyService
	Election  service.ElectionService
	Ballot    service.BallotService
	Results   service.ResultsService
}

// Server wires services into HTTP handlers.
type Server struct {
	svc     Services
	tokens  TokenParser
	log     *zap.Logger
	metrics *metrics.Metrics
	gather  prometheus.Gatherer
	health  Pinger
	now     func() time.Time

	trustProxy bool
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.log = l } }

// WithMetrics records request metrics in m and exposes gatherer at /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics, s.gather = m, g }
}

// WithHealth makes /health report the pinger's state.
func WithHealth(p Pinger) Option { return func(s *Server) { s.health = p } }

// WithTrustedProxy takes client addresses from X-Forwarded-For / X-Real-IP.
func WithTrustedProxy(trust bool) Option { return func(s *Server) { s.trustProxy = trust } }

// WithClock overrides the time source used for window checks.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New constructs a Server.
func New(svc Services, tokens TokenParser, opts ...Option) *Server {
	s := &Server{svc: svc, tokens: tokens, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.gather != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	}

	// Identity
	mux.HandleFunc("POST /api/auth/voter/register", s.registerVoter)
	mux.HandleFunc("POST /api/auth/voter/login", s.loginVoter)
	mux.HandleFunc("POST /api/auth/candidate/register", s.registerCandidate)
	mux.HandleFunc("POST /api/auth/candidate/login", s.loginCandidate)
	mux.HandleFunc("POST /api/auth/admin/login", s.loginAdmin)
	mux.HandleFunc("GET /api/auth/me", s.authed(s.me))

	// Voters
	mux.HandleFunc("GET /api/voters/candidates", s.authed(s.approvedCandidates, model.RoleVoter))
	mux.HandleFunc("POST /api/voters/vote/{candidateId}", s.authed(s.castVote, model.RoleVoter))

	// Candidates
	mux.HandleFunc("GET /api/candidates/me", s.authed(s.candidateProfile, model.RoleCandidate))
	mux.HandleFunc("PUT /api/candidates/me", s.authed(s.updateProfile, model.RoleCandidate))

	// Admin
	mux.HandleFunc("GET /api/admin/candidates", s.authed(s.listCandidates, model.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/candidates/{id}/approve", s.authed(s.approve, model.RoleAdmin))
	mux.HandleFunc("PUT /api/admin/candidates/{id}/reject", s.authed(s.reject, model.RoleAdmin))
	mux.HandleFunc("POST /api/admin/set-voting-timings", s.authed(s.setTimings, model.RoleAdmin))
	mux.HandleFunc("GET /api/admin/voting-timings", s.authed(s.getTimings, model.RoleAdmin))
	mux.HandleFunc("GET /api/admin/results", s.authed(s.results, model.RoleAdmin))

	// Public results
	mux.HandleFunc("GET /api/results/current", s.results)
	mux.HandleFunc("GET /api/results/voting-status", s.votingStatus)

	return s.observe(s.recoverer(cors(mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, api.Health{Status: "unavailable"}, s.log)
			return
		}
	}
	writeJSON(w, http.StatusOK, api.Health{Status: "ok"}, s.log)
}
