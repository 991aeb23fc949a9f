// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	votesCast      prometheus.Counter
	voteRejections *prometheus.CounterVec
	logins         *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		votesCast: f.NewCounter(prometheus.CounterOpts{
			Name: "evote_votes_cast_total",
			Help: "total votes recorded",
		}),
		voteRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evote_vote_rejections_total",
			Help: "vote attempts refused, by reason",
		}, []string{"reason"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evote_logins_total",
			Help: "login attempts by role and outcome",
		}, []string{"role", "outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evote_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evote_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// VoteCast counts a recorded vote.
func (m *Metrics) VoteCast() {
	if m == nil {
		return
	}
	m.votesCast.Inc()
}

// VoteRejected counts a refused vote.
func (m *Metrics) VoteRejected(reason string) {
	if m == nil {
		return
	}
	m.voteRejections.WithLabelValues(reason).Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(role, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

// Request observes one served HTTP request.
func (m *Metrics) Request(method, route string, code int, dur time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}
