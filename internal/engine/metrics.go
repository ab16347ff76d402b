package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesEmittedTotal tracks opportunities emitted across ticks.
	OpportunitiesEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_opportunities_emitted_total",
		Help: "Total number of arbitrage opportunities emitted",
	})

	// RejectionsTotal tracks pairings rejected by the admission pipeline.
	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_pairings_rejected_total",
		Help: "Total number of venue pairings rejected by reason",
	}, []string{"reason"})
)
