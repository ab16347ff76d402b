package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishTotal tracks successful snapshot publications.
	PublishTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_snapshot_publish_total",
		Help: "Total number of published scan snapshots",
	})

	// PublishStaleTotal tracks publications dropped for carrying a
	// timestamp not newer than the current snapshot.
	PublishStaleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_snapshot_publish_stale_total",
		Help: "Total number of stale snapshot publications dropped",
	})
)
