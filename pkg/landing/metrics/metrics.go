// Package metrics exposes Prometheus counters for the landing service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
)

const namespace = "leadgate"

// Metrics owns a registry and the service's collectors. One instance lives
// for the whole process so counters survive config reloads.
type Metrics struct {
	registry *prometheus.Registry

	remoteRequests *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	transitions    *prometheus.CounterVec
	downloads      *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Remote endpoint calls by action and outcome.",
		}, []string{"action", "outcome"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_request_duration_seconds",
			Help:      "Remote endpoint call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
		}, []string{"action"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_transitions_total",
			Help:      "Form state transitions.",
		}, []string{"from", "to"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Resource downloads by name.",
		}, []string{"name"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests refused by a limiter.",
		}, []string{"scope"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.remoteRequests,
		m.remoteDuration,
		m.transitions,
		m.downloads,
		m.rateLimited,
	)
	return m
}

// ObserveRemote records one remote call.
func (m *Metrics) ObserveRemote(action remote.Action, outcome string, elapsed time.Duration) {
	m.remoteRequests.WithLabelValues(string(action), outcome).Inc()
	m.remoteDuration.WithLabelValues(string(action)).Observe(elapsed.Seconds())
}

// ObserveTransition records one state change.
func (m *Metrics) ObserveTransition(from, to session.State) {
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// Download records one served download.
func (m *Metrics) Download(name string) {
	m.downloads.WithLabelValues(name).Inc()
}

// RateLimited records one refused request. scope is "ip" or "cooldown".
func (m *Metrics) RateLimited(scope string) {
	m.rateLimited.WithLabelValues(scope).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
