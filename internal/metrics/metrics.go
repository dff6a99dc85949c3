// Package metrics exposes Prometheus instruments for the HTTP API and matching runs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Match outcomes recorded by ObserveMatch
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Cache lookup results recorded by ObserveCache
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics owns a private registry so instances never collide on registration
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requestsTotal   *prometheus.CounterVec

	matchRuns        *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	candidatesScored prometheus.Counter
	resultsReturned  prometheus.Histogram

	cacheLookups  *prometheus.CounterVec
	notifications prometheus.Counter
}

// New creates a Metrics with Go runtime and process collectors registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		matchRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_runs_total",
				Help: "Matching engine invocations by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		matchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "match_duration_seconds",
			Help:    "Time spent scoring and ranking one candidate pool",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		candidatesScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "match_candidates_scored_total",
			Help: "Candidates submitted to the matching engine",
		}),
		resultsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "match_results_returned",
			Help:    "Ranked results returned per run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_cache_lookups_total",
				Help: "Result cache lookups by result",
			},
			[]string{"result"},
		),
		notifications: factory.NewCounter(prometheus.CounterOpts{
			Name: "match_notifications_published_total",
			Help: "Match events published to subscribers",
		}),
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveMatch records one engine call. results is ignored unless outcome is OutcomeOK.
func (m *Metrics) ObserveMatch(source, outcome string, candidates, results int, d time.Duration) {
	m.matchRuns.WithLabelValues(source, outcome).Inc()
	m.candidatesScored.Add(float64(candidates))
	if outcome == OutcomeOK {
		m.matchDuration.Observe(d.Seconds())
		m.resultsReturned.Observe(float64(results))
	}
}

// ObserveCache records one result cache lookup
func (m *Metrics) ObserveCache(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveNotifications records published match events
func (m *Metrics) ObserveNotifications(n int) {
	if n > 0 {
		m.notifications.Add(float64(n))
	}
}

// Registry returns the underlying registry, for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
