package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivlev/keyframes/internal/cache"
)

// Namespace prefixes every metric name.
const Namespace = "keyframes"

// Metrics collects evaluation and bezier cache metrics in its own registry.
// It satisfies engine.Recorder.
type Metrics struct {
	evaluations     prometheus.Counter
	layersEvaluated prometheus.Counter
	duration        prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics registers evaluation metrics, plus cache metrics read from
// stats on every scrape. stats may be nil.
func NewMetrics(stats func() cache.Stats) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "evaluations_total",
			Help:      "Total number of frame evaluations",
		}),
		layersEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "layers_evaluated_total",
			Help:      "Total number of layers evaluated across all frames",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of a frame evaluation in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	registry.MustRegister(m.evaluations, m.layersEvaluated, m.duration)

	if stats != nil {
		registry.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "bezier_cache",
				Name:      "entries",
				Help:      "Number of solved curves in the bezier cache",
			}, func() float64 { return float64(stats().Len) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "bezier_cache",
				Name:      "capacity",
				Help:      "Maximum number of solved curves in the bezier cache",
			}, func() float64 { return float64(stats().Capacity) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "bezier_cache",
				Name:      "hits_total",
				Help:      "Bezier cache hits",
			}, func() float64 { return float64(stats().Hits) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "bezier_cache",
				Name:      "misses_total",
				Help:      "Bezier cache misses",
			}, func() float64 { return float64(stats().Misses) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "bezier_cache",
				Name:      "evictions_total",
				Help:      "Bezier cache evictions",
			}, func() float64 { return float64(stats().Evictions) }),
		)
	}

	return m
}

// ObserveEvaluation records one Evaluate call.
func (m *Metrics) ObserveEvaluation(layers int, elapsed time.Duration) {
	m.evaluations.Inc()
	m.layersEvaluated.Add(float64(layers))
	m.duration.Observe(elapsed.Seconds())
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
