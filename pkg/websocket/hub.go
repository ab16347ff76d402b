package websocket

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// opportunityUpdate is the wire envelope broadcast to subscribers on
// every published tick.
type opportunityUpdate struct {
	Type      string              `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
	Data      []types.Opportunity `json:"data"`
}

// Hub fans published opportunity sets out to connected websocket
// clients. Each client gets a bounded send buffer; when a client falls
// behind, its oldest pending message is dropped so the hub never blocks
// the scan loop.
type Hub struct {
	logger *zap.Logger

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
	}
}

// Run owns the client set until ctx is cancelled. All membership changes
// and broadcasts funnel through this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			h.logger.Info("websocket-hub-stopped")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			ConnectedClients.Set(float64(len(h.clients)))
			h.logger.Info("websocket-client-connected",
				zap.String("client-id", client.id),
				zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				ConnectedClients.Set(float64(len(h.clients)))
				h.logger.Info("websocket-client-disconnected",
					zap.String("client-id", client.id),
					zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				client.enqueue(message)
			}
		}
	}
}

// Publish serializes the set and queues it for broadcast. Never blocks:
// if the hub itself is saturated the update is dropped, subscribers can
// always recover state from the read endpoints.
func (h *Hub) Publish(set *types.OpportunitiesSet) {
	payload, err := json.Marshal(opportunityUpdate{
		Type:      "opportunityUpdate",
		Timestamp: set.Timestamp,
		Data:      set.Items,
	})
	if err != nil {
		h.logger.Error("websocket-marshal-failed", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
		MessagesBroadcastTotal.Inc()
	default:
		MessagesDroppedTotal.Inc()
	}
}
