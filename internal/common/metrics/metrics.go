// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flow call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid_input"
	OutcomeCached   = "cached"
)

var (
	FlowCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptcraft_flow_calls_total",
			Help: "Total number of flow invocations by outcome",
		},
		[]string{"flow", "outcome"},
	)

	FlowFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptcraft_flow_failures_total",
			Help: "Total number of flow failures by error code",
		},
		[]string{"flow", "error_code"},
	)

	FlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptcraft_flow_duration_seconds",
			Help:    "Duration of flow execution in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"flow"},
	)

	FlowsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promptcraft_flows_active",
			Help: "Number of in-flight flow executions",
		},
		[]string{"flow"},
	)

	QualityScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptcraft_quality_score",
			Help:    "Distribution of estimated response quality scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"variant"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptcraft_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
)
