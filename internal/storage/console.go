package storage

import (
	"context"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Console logs each opportunity instead of persisting it. Default
// backend for local runs.
type Console struct {
	logger *zap.Logger
}

// NewConsole creates a console storage backend.
func NewConsole(logger *zap.Logger) *Console {
	return &Console{logger: logger}
}

// StoreOpportunities logs the batch at info level.
func (c *Console) StoreOpportunities(_ context.Context, opportunities []types.Opportunity) error {
	for _, opp := range opportunities {
		c.logger.Info("opportunity-detected",
			zap.String("id", opp.ID),
			zap.String("symbol", opp.Symbol),
			zap.String("buy-venue", string(opp.BuyVenue)),
			zap.String("sell-venue", string(opp.SellVenue)),
			zap.Float64("spread-pct", opp.SpreadPct),
			zap.Float64("net-profit-abs", opp.NetProfitAbs),
			zap.Float64("confidence", opp.Estimates.ConfidenceScore))
	}
	return nil
}

// Close is a no-op.
func (c *Console) Close() error {
	return nil
}
