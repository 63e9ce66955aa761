package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "companion_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_upstream_requests_total",
			Help: "Total number of calls to upstream APIs",
		},
		[]string{"provider", "operation", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "companion_upstream_request_duration_seconds",
			Help: "Upstream API call latency in seconds",
			// LLM calls run from sub-second to tens of seconds
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "operation"},
	)

	PersonaCompositions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_persona_compositions_total",
			Help: "Number of requests composed with a persona prompt",
		},
		[]string{"persona"},
	)
)

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(provider, operation string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(provider, operation, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}
