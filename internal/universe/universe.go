package universe

import (
	"context"
	"sort"

	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Service computes the scan universe: USDT-quoted active spot symbols
// listed on at least two venues.
type Service struct {
	cache  *markets.Cache
	venues []types.VenueID
	logger *zap.Logger
}

// New creates a universe service over the given venues.
func New(cache *markets.Cache, venues []types.VenueID, logger *zap.Logger) *Service {
	return &Service{
		cache:  cache,
		venues: venues,
		logger: logger,
	}
}

// USDTSpotSymbols returns the sorted USDT-quoted active spot symbols on
// one venue.
func (s *Service) USDTSpotSymbols(ctx context.Context, venue types.VenueID) []string {
	listing := s.cache.Markets(ctx, venue)

	symbols := make([]string, 0, len(listing))
	for symbol, meta := range listing {
		if types.IsUSDTQuoted(symbol) && meta.Active && meta.Spot {
			symbols = append(symbols, symbol)
		}
	}

	sort.Strings(symbols)
	return symbols
}

// CommonUSDTSymbols returns the sorted symbols present (USDT-quoted,
// active, spot) on at least two venues. An empty result is a valid,
// logged terminal state for a scan cycle.
func (s *Service) CommonUSDTSymbols(ctx context.Context) []string {
	counts := make(map[string]int)
	for _, venue := range s.venues {
		for _, symbol := range s.USDTSpotSymbols(ctx, venue) {
			counts[symbol]++
		}
	}

	var common []string
	for symbol, count := range counts {
		if count >= 2 {
			common = append(common, symbol)
		}
	}
	sort.Strings(common)

	if len(common) == 0 {
		s.logger.Warn("symbol-universe-empty",
			zap.Int("venues", len(s.venues)))
	} else {
		s.logger.Info("symbol-universe-computed",
			zap.Int("symbols", len(common)),
			zap.Int("venues", len(s.venues)))
	}

	return common
}
