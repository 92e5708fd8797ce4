// Package metrics exposes chat counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatbot"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	turns       *prometheus.CounterVec
	suggestions *prometheus.CounterVec
	created     prometheus.Counter
	evicted     prometheus.Counter
	active      prometheus.GaugeFunc
}

// New registers all collectors. activeSessions, when non-nil, is sampled on
// every scrape.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Chat turns handled, by the reply rule that fired.",
		}, []string{"rule"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestion queries served, by pool.",
		}, []string{"pool"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions started.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed by expiry or capacity.",
		}),
	}
	m.registry.MustRegister(m.turns, m.suggestions, m.created, m.evicted)

	if activeSessions != nil {
		m.active = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) })
		m.registry.MustRegister(m.active)
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTurn counts one chat turn.
func (m *Metrics) ObserveTurn(rule string) { m.turns.WithLabelValues(rule).Inc() }

// ObserveSuggestions counts one suggestion query.
func (m *Metrics) ObserveSuggestions(pool string) { m.suggestions.WithLabelValues(pool).Inc() }

// SessionCreated counts a new session.
func (m *Metrics) SessionCreated(string) { m.created.Inc() }

// SessionEvicted counts a removed session.
func (m *Metrics) SessionEvicted(string) { m.evicted.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
