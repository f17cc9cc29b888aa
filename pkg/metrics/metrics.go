package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AssistantQueries           *prometheus.CounterVec
	ReferenceIntegrityFailures prometheus.Counter
	CitationsPerResponse       prometheus.Histogram
	GenerationDuration         prometheus.Histogram
	ContentRequests            *prometheus.CounterVec
	PerformanceMarks           *prometheus.HistogramVec
}

// New registers the service metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AssistantQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blocks_assistant_queries_total",
				Help: "Total number of assistant queries by outcome",
			},
			[]string{"outcome"},
		),
		ReferenceIntegrityFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "blocks_reference_integrity_failures_total",
				Help: "Total number of built responses that failed reference validation",
			},
		),
		CitationsPerResponse: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blocks_assistant_citations",
				Help:    "Number of distinct references per assistant response",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
			},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blocks_generation_duration_seconds",
				Help:    "Duration of deterministic content generation in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		ContentRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blocks_content_requests_total",
				Help: "Total number of content requests by kind and status code",
			},
			[]string{"kind", "code"},
		),
		PerformanceMarks: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blocks_client_performance_mark_ms",
				Help:    "Client-side performance marks in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"name"},
		),
	}
}
