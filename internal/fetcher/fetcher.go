package fetcher

import (
	"context"
	"time"

	"github.com/spotarb/spot-arb/internal/exchange"
	"github.com/spotarb/spot-arb/internal/markets"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Fetcher assembles a PairSnapshot for one (venue, symbol) by combining
// the venue's market metadata, ticker, and order book.
type Fetcher struct {
	registry exchange.AdapterSource
	cache    *markets.Cache
	logger   *zap.Logger
}

// New creates a pair fetcher.
func New(registry exchange.AdapterSource, cache *markets.Cache, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		registry: registry,
		cache:    cache,
		logger:   logger,
	}
}

// Fetch returns a snapshot for (venue, symbol), or a typed error outcome.
// Every failure path is classified; nothing propagates as a panic or a
// tick-level failure.
func (f *Fetcher) Fetch(ctx context.Context, venue types.VenueID, symbol string) (*types.PairSnapshot, *types.FetchError) {
	adapter := f.registry.Adapter(venue)
	if adapter == nil {
		return nil, f.fail(types.FetchUnsupportedVenue, venue, symbol, "")
	}

	listing := f.cache.Markets(ctx, venue)
	if len(listing) == 0 {
		return nil, f.fail(types.FetchMarketsUnavailable, venue, symbol, "")
	}

	meta, ok := listing[symbol]
	if !ok {
		return nil, f.fail(types.FetchUnknownSymbol, venue, symbol, "")
	}

	if !meta.Active {
		return nil, f.fail(types.FetchInactive, venue, symbol, "")
	}

	if !meta.Spot {
		return nil, f.fail(types.FetchNotSpot, venue, symbol, "")
	}

	ticker := adapter.FetchTicker(ctx, symbol)
	if ticker == nil {
		return nil, f.fail(types.FetchTickerUnavailable, venue, symbol, "")
	}

	book := adapter.FetchOrderBook(ctx, symbol, types.DepthLimit)
	if book == nil {
		return nil, f.fail(types.FetchOrderBookUnavailable, venue, symbol, "")
	}

	if !book.Valid() {
		return nil, f.fail(types.FetchOrderBookUnavailable, venue, symbol, "invalid or one-sided book")
	}

	bestBid := book.Bids[0]
	bestAsk := book.Asks[0]

	snapshot := &types.PairSnapshot{
		Symbol: symbol,
		Venue:  venue,
		Price: types.PriceBlock{
			Last:      ticker.Last,
			Bid:       ticker.Bid,
			Ask:       ticker.Ask,
			Spread:    ticker.Ask - ticker.Bid,
			Volume:    ticker.BaseVolume,
			ChangePct: ticker.Percentage,
		},
		OrderBook: types.OrderBookBlock{
			BestBid: bestBid.Price,
			BestAsk: bestAsk.Price,
			Bids:    book.Bids,
			Asks:    book.Asks,
		},
		Fees: types.FeeBlock{
			Maker: meta.MakerFee,
			Taker: meta.TakerFee,
			// Transfer costs are excluded under the pre-funded
			// balances model.
			Withdrawal: nil,
			Deposit:    0,
			Network:    0,
		},
		Limits:    meta.Limits,
		Precision: meta.Precision,
		FetchedAt: time.Now(),
	}

	FetchesTotal.WithLabelValues(string(venue), "ok").Inc()
	return snapshot, nil
}

func (f *Fetcher) fail(kind types.FetchErrorKind, venue types.VenueID, symbol, detail string) *types.FetchError {
	FetchesTotal.WithLabelValues(string(venue), string(kind)).Inc()
	f.logger.Debug("pair-fetch-failed",
		zap.String("venue", string(venue)),
		zap.String("symbol", symbol),
		zap.String("kind", string(kind)),
		zap.String("detail", detail))
	return types.NewFetchError(kind, venue, symbol, detail)
}
