// Package metrics exposes Prometheus instruments for the aggregation core.
// Every method is safe on a nil *Metrics so collaborators can run without instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobnexus"

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all Prometheus metrics of the service
type Metrics struct {
	ProviderRequests    *prometheus.CounterVec
	ProviderDuration    *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	JobsReturned        prometheus.Histogram
}

// New creates and registers the metrics on reg (default registerer when nil)
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Provider searches by provider and outcome",
		}, []string{"provider", "outcome"}),
		ProviderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "duration_seconds",
			Help:      "Provider search latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Result cache lookups by result",
		}, []string{"result"}),
		PersistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "failures_total",
			Help:      "Background persistence failures by sink",
		}, []string{"sink"}),
		JobsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "jobs_returned",
			Help:      "Jobs returned per aggregation call",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 200},
		}),
	}
}

// ObserveProvider records one provider search
func (m *Metrics) ObserveProvider(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup result
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// PersistenceFailed records a failed background write
func (m *Metrics) PersistenceFailed(sink string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(sink).Inc()
}

// ObserveJobs records the size of a returned result
func (m *Metrics) ObserveJobs(n int) {
	if m == nil {
		return
	}
	m.JobsReturned.Observe(float64(n))
}
