package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectedClients tracks the current subscriber count.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spot_arb_websocket_clients",
		Help: "Current number of connected websocket clients",
	})

	// MessagesBroadcastTotal tracks opportunity updates accepted for
	// broadcast.
	MessagesBroadcastTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_websocket_broadcasts_total",
		Help: "Total number of opportunity updates broadcast",
	})

	// MessagesSentTotal tracks frames written to clients.
	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_websocket_messages_sent_total",
		Help: "Total number of websocket messages written",
	})

	// MessagesDroppedTotal tracks messages dropped for slow consumers or
	// a saturated hub.
	MessagesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spot_arb_websocket_messages_dropped_total",
		Help: "Total number of websocket messages dropped",
	})
)
