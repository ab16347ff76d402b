package exchange_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/internal/testutil"
	"github.com/spotarb/spot-arb/pkg/cache"
	"github.com/spotarb/spot-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdapter(venue *testutil.FakeVenue, responseCache cache.Cache, ttl time.Duration) *exchange.Adapter {
	return exchange.NewAdapter(venue, exchange.AdapterConfig{
		RateRPS:   1000,
		RateBurst: 1000,
		Cache:     responseCache,
		CacheTTL:  ttl,
		Logger:    zap.NewNop(),
	})
}

func tickerVenue() *testutil.FakeVenue {
	return &testutil.FakeVenue{
		Venue: types.VenueBinance,
		Tickers: map[string]*types.Ticker{
			"BTC/USDT": {Symbol: "BTC/USDT", Last: 60000, Bid: 59990, Ask: 60010},
		},
		Books: map[string]*types.OrderBook{
			"BTC/USDT": {
				Bids: []types.Level{{Price: 59990, Amount: 1}},
				Asks: []types.Level{{Price: 60010, Amount: 1}},
			},
		},
	}
}

func TestAdapterRetriesOnceAfterRateLimit(t *testing.T) {
	venue := tickerVenue()
	venue.TickerErrs = []error{exchange.ErrRateLimited}
	adapter := newAdapter(venue, nil, 0)

	start := time.Now()
	ticker := adapter.FetchTicker(context.Background(), "BTC/USDT")
	elapsed := time.Since(start)

	require.NotNil(t, ticker)
	assert.Equal(t, 60000.0, ticker.Last)
	assert.Equal(t, 2, venue.TickerCalls)
	// One fixed backoff between the attempts.
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestAdapterSingleRetryThenNil(t *testing.T) {
	venue := tickerVenue()
	venue.TickerErrs = []error{exchange.ErrRateLimited, exchange.ErrRateLimited}
	adapter := newAdapter(venue, nil, 0)

	ticker := adapter.FetchTicker(context.Background(), "BTC/USDT")
	assert.Nil(t, ticker)
	assert.Equal(t, 2, venue.TickerCalls)
}

func TestAdapterGenericFailureNoRetry(t *testing.T) {
	venue := tickerVenue()
	venue.TickerErrs = []error{errors.New("boom")}
	adapter := newAdapter(venue, nil, 0)

	ticker := adapter.FetchTicker(context.Background(), "BTC/USDT")
	assert.Nil(t, ticker)
	assert.Equal(t, 1, venue.TickerCalls)
}

func TestAdapterLoadMarketsFailureReturnsNil(t *testing.T) {
	venue := tickerVenue()
	venue.MarketsErrs = []error{errors.New("listing down")}
	adapter := newAdapter(venue, nil, 0)

	assert.Nil(t, adapter.LoadMarkets(context.Background()))
}

func TestAdapterResponseCache(t *testing.T) {
	venue := tickerVenue()

	responseCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer responseCache.Close()

	adapter := newAdapter(venue, responseCache, time.Minute)

	first := adapter.FetchTicker(context.Background(), "BTC/USDT")
	require.NotNil(t, first)

	// Ristretto applies sets asynchronously.
	responseCache.(*cache.RistrettoCache).Wait()

	second := adapter.FetchTicker(context.Background(), "BTC/USDT")
	require.NotNil(t, second)
	assert.Equal(t, 1, venue.TickerCalls)
}

func TestAdapterOrderBook(t *testing.T) {
	adapter := newAdapter(tickerVenue(), nil, 0)

	book := adapter.FetchOrderBook(context.Background(), "BTC/USDT", types.DepthLimit)
	require.NotNil(t, book)
	assert.True(t, book.Valid())
}

func TestAdapterContextCancelled(t *testing.T) {
	adapter := newAdapter(tickerVenue(), nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, adapter.FetchTicker(ctx, "BTC/USDT"))
}
