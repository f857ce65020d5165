package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlagsCreated  *prometheus.CounterVec
	DetectionRuns prometheus.Counter
	DetectionTime prometheus.Histogram
	LifecycleOps  *prometheus.CounterVec
	ErrorsCount   *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		FlagsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flags_created_total",
			Help:      "The total number of flags created by auto-detection",
		}, []string{"type"}),
		DetectionRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detection_runs_total",
			Help:      "The total number of detection runs",
		}),
		DetectionTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detection_run_seconds",
			Help:      "Time taken by one detection run",
			Buckets:   prometheus.DefBuckets,
		}),
		LifecycleOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flag_lifecycle_ops_total",
			Help:      "The total number of resolve/escalate/dismiss operations",
		}, []string{"op"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
