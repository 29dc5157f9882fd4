// Package metrics owns the Prometheus collectors exported by the server and
// the HTTP endpoint that serves them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	registry        *prometheus.Registry
	oracleRequests  *prometheus.CounterVec
	oracleDuration  *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	authentications *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		oracleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "essaydesk",
			Name:      "oracle_requests_total",
			Help:      "Model oracle calls by backend and result.",
		}, []string{"backend", "result"}),
		oracleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "essaydesk",
			Name:      "oracle_request_duration_seconds",
			Help:      "Model oracle call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"backend"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "essaydesk",
			Name:      "submissions_total",
			Help:      "Essay submissions by outcome.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "essaydesk",
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"result"}),
		authentications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "essaydesk",
			Name:      "authentications_total",
			Help:      "Login attempts by outcome.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.oracleRequests,
		m.oracleDuration,
		m.submissions,
		m.registrations,
		m.authentications,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveOracle records one oracle call.
func (m *Metrics) ObserveOracle(backend string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.oracleRequests.WithLabelValues(backend, result(err)).Inc()
	m.oracleDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// Submission records a ledger outcome such as "ok", "duplicate" or "evaluation_failed".
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Authentication(outcome string) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Server serves /metrics until its context is cancelled.
type Server struct {
	address string
	metrics *Metrics
	logger  logging.Logger
}

func NewServer(address string, m *Metrics, l logging.Logger) *Server {
	return &Server{address: address, metrics: m, logger: l.With("module", "metrics_server")}
}

func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())

	srv := &http.Server{
		Addr:              s.address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting metrics server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
