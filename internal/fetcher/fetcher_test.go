package fetcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spotarb/spot-arb/internal/fetcher"
	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/internal/testutil"
	"github.com/spotarb/spot-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFetcher(venues ...*testutil.FakeVenue) *fetcher.Fetcher {
	source := testutil.NewFakeSource(venues...)
	cache := markets.NewCache(source, zap.NewNop())
	return fetcher.New(source, cache, zap.NewNop())
}

func healthyVenue() *testutil.FakeVenue {
	return &testutil.FakeVenue{
		Venue: types.VenueBinance,
		Markets: map[string]types.MarketMeta{
			"BTC/USDT": {
				Symbol:   "BTC/USDT",
				Active:   true,
				Spot:     true,
				MakerFee: 0.001,
				TakerFee: 0.001,
				Limits:   types.Limits{MinAmount: 0.0001, MinCost: 5},
			},
			"OLD/USDT": {Symbol: "OLD/USDT", Active: false, Spot: true},
			"PERP/USDT": {
				Symbol: "PERP/USDT",
				Active: true,
				Spot:   false,
			},
		},
		Tickers: map[string]*types.Ticker{
			"BTC/USDT": {
				Symbol:     "BTC/USDT",
				Last:       60000,
				Bid:        59990,
				Ask:        60010,
				BaseVolume: 1234,
				Percentage: 2.5,
			},
		},
		Books: map[string]*types.OrderBook{
			"BTC/USDT": {
				Bids: []types.Level{{Price: 59990, Amount: 1}},
				Asks: []types.Level{{Price: 60010, Amount: 1}},
			},
		},
	}
}

func TestFetchSuccess(t *testing.T) {
	f := newFetcher(healthyVenue())

	snapshot, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "BTC/USDT")
	require.Nil(t, fetchErr)
	require.NotNil(t, snapshot)

	assert.Equal(t, "BTC/USDT", snapshot.Symbol)
	assert.Equal(t, types.VenueBinance, snapshot.Venue)
	assert.Equal(t, 60000.0, snapshot.Price.Last)
	assert.Equal(t, 20.0, snapshot.Price.Spread)
	assert.Equal(t, 1234.0, snapshot.Price.Volume)
	assert.Equal(t, 2.5, snapshot.Price.ChangePct)
	assert.Equal(t, 59990.0, snapshot.OrderBook.BestBid)
	assert.Equal(t, 60010.0, snapshot.OrderBook.BestAsk)
	assert.Equal(t, 0.001, snapshot.Fees.Taker)
	assert.Nil(t, snapshot.Fees.Withdrawal)
	assert.Equal(t, 0.0001, snapshot.Limits.MinAmount)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestFetchUnsupportedVenue(t *testing.T) {
	f := newFetcher(healthyVenue())

	_, fetchErr := f.Fetch(context.Background(), types.VenueID("okx"), "BTC/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchUnsupportedVenue, fetchErr.Kind)
}

func TestFetchMarketsUnavailable(t *testing.T) {
	venue := healthyVenue()
	venue.MarketsErrs = []error{errors.New("listing down")}
	f := newFetcher(venue)

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "BTC/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchMarketsUnavailable, fetchErr.Kind)
}

func TestFetchUnknownSymbol(t *testing.T) {
	f := newFetcher(healthyVenue())

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "NOPE/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchUnknownSymbol, fetchErr.Kind)
}

func TestFetchInactiveSymbol(t *testing.T) {
	f := newFetcher(healthyVenue())

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "OLD/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchInactive, fetchErr.Kind)
}

func TestFetchNotSpot(t *testing.T) {
	f := newFetcher(healthyVenue())

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "PERP/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchNotSpot, fetchErr.Kind)
}

func TestFetchTickerUnavailable(t *testing.T) {
	venue := healthyVenue()
	delete(venue.Tickers, "BTC/USDT")
	f := newFetcher(venue)

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "BTC/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchTickerUnavailable, fetchErr.Kind)
}

func TestFetchOrderBookUnavailable(t *testing.T) {
	venue := healthyVenue()
	delete(venue.Books, "BTC/USDT")
	f := newFetcher(venue)

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "BTC/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchOrderBookUnavailable, fetchErr.Kind)
}

func TestFetchOneSidedBookRejected(t *testing.T) {
	venue := healthyVenue()
	venue.Books["BTC/USDT"] = &types.OrderBook{
		Asks: []types.Level{{Price: 60010, Amount: 1}},
	}
	f := newFetcher(venue)

	_, fetchErr := f.Fetch(context.Background(), types.VenueBinance, "BTC/USDT")
	require.NotNil(t, fetchErr)
	assert.Equal(t, types.FetchOrderBookUnavailable, fetchErr.Kind)
}

func TestFetchErrorMessage(t *testing.T) {
	err := types.NewFetchError(types.FetchUnknownSymbol, types.VenueGate, "ABC/USDT", "")
	assert.Contains(t, err.Error(), "gate")
	assert.Contains(t, err.Error(), "ABC/USDT")
}
