package markets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarketsLoadedTotal tracks markets loaded into the cache per venue.
	MarketsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_markets_loaded_total",
		Help: "Total number of markets loaded into the cache",
	}, []string{"venue"})

	// LoadFailuresTotal tracks failed market listing loads per venue.
	LoadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spot_arb_markets_load_failures_total",
		Help: "Total number of failed market listing loads",
	}, []string{"venue"})
)
