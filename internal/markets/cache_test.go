package markets_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/internal/testutil"
	"github.com/spotarb/spot-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheLoadsOnce(t *testing.T) {
	venue := &testutil.FakeVenue{
		Venue: types.VenueBinance,
		Markets: map[string]types.MarketMeta{
			"BTC/USDT": testutil.Meta("BTC/USDT", 0.001),
		},
	}
	cache := markets.NewCache(testutil.NewFakeSource(venue), zap.NewNop())

	ctx := context.Background()
	first := cache.Markets(ctx, types.VenueBinance)
	second := cache.Markets(ctx, types.VenueBinance)

	require.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, venue.MarketCalls)
}

func TestCacheFailedLoadIsSticky(t *testing.T) {
	venue := &testutil.FakeVenue{
		Venue: types.VenueKucoin,
		Markets: map[string]types.MarketMeta{
			"BTC/USDT": testutil.Meta("BTC/USDT", 0.001),
		},
		MarketsErrs: []error{errors.New("listing down")},
	}
	cache := markets.NewCache(testutil.NewFakeSource(venue), zap.NewNop())

	ctx := context.Background()
	assert.Empty(t, cache.Markets(ctx, types.VenueKucoin))

	// The failure is cached; the venue would now succeed but is not asked.
	assert.Empty(t, cache.Markets(ctx, types.VenueKucoin))
	assert.Equal(t, 1, venue.MarketCalls)
}

func TestCacheUnknownVenue(t *testing.T) {
	cache := markets.NewCache(testutil.NewFakeSource(), zap.NewNop())
	assert.Empty(t, cache.Markets(context.Background(), types.VenueGate))
}

func TestCacheMeta(t *testing.T) {
	venue := &testutil.FakeVenue{
		Venue: types.VenueMexc,
		Markets: map[string]types.MarketMeta{
			"ETH/USDT": testutil.Meta("ETH/USDT", 0.002),
		},
	}
	cache := markets.NewCache(testutil.NewFakeSource(venue), zap.NewNop())

	meta, ok := cache.Meta(context.Background(), types.VenueMexc, "ETH/USDT")
	require.True(t, ok)
	assert.Equal(t, 0.002, meta.TakerFee)

	_, ok = cache.Meta(context.Background(), types.VenueMexc, "DOGE/USDT")
	assert.False(t, ok)
}

func TestCacheConcurrentFirstAccess(t *testing.T) {
	venue := &testutil.FakeVenue{
		Venue: types.VenueBybit,
		Markets: map[string]types.MarketMeta{
			"BTC/USDT": testutil.Meta("BTC/USDT", 0.001),
		},
	}
	cache := markets.NewCache(testutil.NewFakeSource(venue), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, cache.Markets(context.Background(), types.VenueBybit), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, venue.MarketCalls)
}
