package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// FakeVenue is a configurable in-memory venue implementation.
type FakeVenue struct {
	Venue   types.VenueID
	Markets map[string]types.MarketMeta
	Tickers map[string]*types.Ticker
	Books   map[string]*types.OrderBook

	// Errors returned before the canned data, consumed in order. Used to
	// simulate transient failures and throttling.
	MarketsErrs []error
	TickerErrs  []error
	BookErrs    []error

	mu          sync.Mutex
	MarketCalls int
	TickerCalls int
	BookCalls   int
}

// ID implements exchange.Venue.
func (f *FakeVenue) ID() types.VenueID {
	return f.Venue
}

// LoadMarkets implements exchange.Venue.
func (f *FakeVenue) LoadMarkets(context.Context) (map[string]types.MarketMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MarketCalls++
	if len(f.MarketsErrs) > 0 {
		err := f.MarketsErrs[0]
		f.MarketsErrs = f.MarketsErrs[1:]
		return nil, err
	}
	return f.Markets, nil
}

// FetchTicker implements exchange.Venue.
func (f *FakeVenue) FetchTicker(_ context.Context, symbol string) (*types.Ticker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TickerCalls++
	if len(f.TickerErrs) > 0 {
		err := f.TickerErrs[0]
		f.TickerErrs = f.TickerErrs[1:]
		return nil, err
	}
	ticker, ok := f.Tickers[symbol]
	if !ok {
		return nil, errors.New("ticker not found")
	}
	return ticker, nil
}

// FetchOrderBook implements exchange.Venue.
func (f *FakeVenue) FetchOrderBook(_ context.Context, symbol string, _ int) (*types.OrderBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BookCalls++
	if len(f.BookErrs) > 0 {
		err := f.BookErrs[0]
		f.BookErrs = f.BookErrs[1:]
		return nil, err
	}
	book, ok := f.Books[symbol]
	if !ok {
		return nil, errors.New("order book not found")
	}
	return book, nil
}

// FakeSource is an exchange.AdapterSource over fake venues.
type FakeSource struct {
	Adapters map[types.VenueID]*exchange.Adapter
}

// NewFakeSource wraps each fake venue in a real adapter with generous
// rate limits so tests exercise the production call path.
func NewFakeSource(venues ...*FakeVenue) *FakeSource {
	source := &FakeSource{Adapters: make(map[types.VenueID]*exchange.Adapter)}
	for _, v := range venues {
		source.Adapters[v.Venue] = exchange.NewAdapter(v, exchange.AdapterConfig{
			RateRPS:   1000,
			RateBurst: 1000,
			Logger:    zap.NewNop(),
		})
	}
	return source
}

// Adapter implements exchange.AdapterSource.
func (s *FakeSource) Adapter(id types.VenueID) *exchange.Adapter {
	return s.Adapters[id]
}
