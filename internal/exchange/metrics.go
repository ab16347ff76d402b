package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDurationSeconds tracks venue request latency per operation.
	RequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spot_arb_venue_request_duration_seconds",
		Help:    "Duration of venue API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"venue", "op"})

	// RequestFailuresTotal tracks terminal venue request failures.
	RequestFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_venue_request_failures_total",
		Help: "Total number of venue API requests that resolved to a null outcome",
	}, []string{"venue", "op"})

	// RateLimitedTotal tracks rate-limit responses that triggered a backoff retry.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_venue_rate_limited_total",
		Help: "Total number of venue rate-limit responses",
	}, []string{"venue"})

	// BreakerStateChangesTotal tracks circuit breaker transitions per venue.
	BreakerStateChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_venue_breaker_state_changes_total",
		Help: "Total number of venue circuit breaker state transitions",
	}, []string{"venue", "state"})
)
