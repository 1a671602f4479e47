package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeExpired  = "expired"
	OutcomeMissing  = "missing"
	OutcomeInactive = "inactive"
	OutcomeRevoked  = "revoked"
	OutcomeError    = "error"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	signIns          *prometheus.CounterVec
	tokenValidations *prometheus.CounterVec
	refreshes        *prometheus.CounterVec
	problems         *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers all collectors in a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_sign_in_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		tokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_validation_total",
			Help: "Bearer token validations by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_refresh_total",
			Help: "Refresh token exchanges by outcome.",
		}, []string{"outcome"}),
		problems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_problem_responses_total",
			Help: "Problem responses written by status code.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.signIns, m.tokenValidations, m.refreshes, m.problems,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SignIn(outcome string) {
	if m != nil {
		m.signIns.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) TokenValidation(outcome string) {
	if m != nil {
		m.tokenValidations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Refresh(outcome string) {
	if m != nil {
		m.refreshes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Problem(status string) {
	if m != nil {
		m.problems.WithLabelValues(status).Inc()
	}
}

// Request records one served request
func (m *Metrics) Request(method, route, status string, seconds float64) {
	if m != nil {
		m.httpRequests.WithLabelValues(method, route, status).Inc()
		m.httpDuration.WithLabelValues(method, route, status).Observe(seconds)
	}
}
