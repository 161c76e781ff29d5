package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the transliteration engine.
// Tracks where results came from and how the primary service behaves.
type Metrics struct {
	Requests        *prometheus.CounterVec
	PrimaryFailures *prometheus.CounterVec
	PrimaryLatency  prometheus.Histogram
}

// New registers the transliteration metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voter_finder_transliterations_total",
			Help: "Transliteration requests by result source",
		}, []string{"source"}),
		PrimaryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voter_finder_transliteration_primary_failures_total",
			Help: "Primary transliteration failures by category",
		}, []string{"category"}),
		PrimaryLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voter_finder_transliteration_primary_duration_seconds",
			Help:    "Duration of calls to the remote transliteration service",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		}),
	}
}

// IncrementRequest records a finished transliteration by source.
func (m *Metrics) IncrementRequest(source string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(source).Inc()
}

// IncrementPrimaryFailure records a primary failure by category.
func (m *Metrics) IncrementPrimaryFailure(category string) {
	if m == nil {
		return
	}
	m.PrimaryFailures.WithLabelValues(category).Inc()
}

// ObservePrimary records the duration of a primary call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePrimary(start time.Time) {
	if m == nil {
		return
	}
	m.PrimaryLatency.Observe(time.Since(start).Seconds())
}
