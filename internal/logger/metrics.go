package logger

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SweepRunsTotal counts evaluator sweeps by result
	SweepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labwise_sweep_runs_total",
			Help: "Total number of notification sweeps",
		},
		[]string{"result"}, // "ok" or "error"
	)

	// SweepDuration measures sweep latency
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "labwise_sweep_duration_seconds",
			Help:    "Notification sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FiringsTotal counts rule firings by kind
	FiringsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labwise_rule_firings_total",
			Help: "Total number of notification rule firings",
		},
		[]string{"kind"},
	)

	// DispatchTotal counts per-recipient dispatch attempts by outcome
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labwise_dispatch_total",
			Help: "Total number of notification dispatch attempts",
		},
		[]string{"kind", "status"}, // status "sent" or "failed"
	)

	// TaskTransitionsTotal counts maintenance task transitions
	TaskTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labwise_task_transitions_total",
			Help: "Total number of maintenance task status transitions",
		},
		[]string{"to", "source"},
	)
)

// InitMetrics registers Prometheus metrics
func InitMetrics() {
	prometheus.MustRegister(SweepRunsTotal)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(FiringsTotal)
	prometheus.MustRegister(DispatchTotal)
	prometheus.MustRegister(TaskTransitionsTotal)
}

// MetricsHandler returns HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
