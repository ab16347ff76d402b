package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal tracks completed scan ticks.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_scan_ticks_total",
		Help: "Total number of completed scan ticks",
	})

	// TickDurationSeconds tracks scan tick latency.
	TickDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spot_arb_scan_tick_duration_seconds",
		Help:    "Duration of scan ticks in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
