package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/flowc/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lines       *prometheus.GaugeVec
	lineHits    *prometheus.CounterVec
	variables   *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry so several
// compilers (or tests) never collide on the global one.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowc_generations_total",
				Help: "Total number of source generations",
			},
			[]string{"program"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowc_generate_duration_seconds",
				Help:    "Duration of source generations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"program"},
		),
		lines: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowc_source_lines",
				Help: "Lines in the last generated source",
			},
			[]string{"program"},
		),
		lineHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowc_debug_line_hits_total",
				Help: "Total number of debugger stops",
			},
			[]string{"function"},
		),
		variables: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowc_debug_variables_total",
				Help: "Total number of variable bindings reported by the debugger",
			},
			[]string{"session"},
		),
	}
	m.registry.MustRegister(m.generations, m.duration, m.lines, m.lineHits, m.variables)
	return m
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			m.generations.WithLabelValues(e.Program).Inc()
			m.duration.WithLabelValues(e.Program).Observe(e.Duration.Seconds())
			m.lines.WithLabelValues(e.Program).Set(float64(e.Lines))
		},
		OnLineHit: func(_ context.Context, e *domain.LineHitEvent) {
			m.lineHits.WithLabelValues(e.Function).Inc()
		},
		OnVariable: func(_ context.Context, e *domain.VariableEvent) {
			m.variables.WithLabelValues(e.SessionID).Inc()
		},
	}
}

// Registry exposes the private registry, e.g. for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
