package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FetchesTotal tracks pair fetch outcomes per venue. The outcome label is
// "ok" or the fetch error kind.
var FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "spot_arb_pair_fetches_total",
	Help: "Total number of pair fetches by outcome",
}, []string{"venue", "outcome"})
