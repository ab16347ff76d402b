package markets

import (
	"context"
	"sync"

	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Cache is the process-wide market metadata cache. Each venue's listing is
// loaded lazily on first access and kept for the process lifetime; a failed
// load is also cached (as an empty listing) so a flapping venue is not
// hammered on every tick. A restart is the only refresh.
type Cache struct {
	registry exchange.AdapterSource
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[types.VenueID]*venueEntry
}

// venueEntry serializes the first load per venue: the first LoadMarkets
// outcome wins, concurrent callers block on it.
type venueEntry struct {
	once    sync.Once
	markets map[string]types.MarketMeta
}

// NewCache creates an empty markets cache backed by the adapter registry.
func NewCache(registry exchange.AdapterSource, logger *zap.Logger) *Cache {
	return &Cache{
		registry: registry,
		logger:   logger,
		entries:  make(map[types.VenueID]*venueEntry),
	}
}

// Markets returns the cached market listing for venue, loading it on first
// access. Returns an empty map when the venue is unknown or its listing
// could not be loaded.
func (c *Cache) Markets(ctx context.Context, venue types.VenueID) map[string]types.MarketMeta {
	c.mu.Lock()
	entry, ok := c.entries[venue]
	if !ok {
		entry = &venueEntry{}
		c.entries[venue] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.markets = c.load(ctx, venue)
	})

	return entry.markets
}

// Meta returns the metadata for one symbol on one venue.
func (c *Cache) Meta(ctx context.Context, venue types.VenueID, symbol string) (types.MarketMeta, bool) {
	meta, ok := c.Markets(ctx, venue)[symbol]
	return meta, ok
}

func (c *Cache) load(ctx context.Context, venue types.VenueID) map[string]types.MarketMeta {
	adapter := c.registry.Adapter(venue)
	if adapter == nil {
		c.logger.Warn("markets-load-skipped-unknown-venue", zap.String("venue", string(venue)))
		return map[string]types.MarketMeta{}
	}

	markets := adapter.LoadMarkets(ctx)
	if markets == nil {
		LoadFailuresTotal.WithLabelValues(string(venue)).Inc()
		c.logger.Warn("markets-load-failed",
			zap.String("venue", string(venue)),
			zap.String("note", "empty listing cached until restart"))
		return map[string]types.MarketMeta{}
	}

	MarketsLoadedTotal.WithLabelValues(string(venue)).Add(float64(len(markets)))
	c.logger.Info("markets-loaded",
		zap.String("venue", string(venue)),
		zap.Int("count", len(markets)))

	return markets
}
