package testutil

import (
	"time"

	"github.com/spotarb/spot-arb/pkg/types"
)

// Meta creates an active USDT spot market with the given taker fee.
func Meta(symbol string, takerFee float64) types.MarketMeta {
	return types.MarketMeta{
		Symbol:   symbol,
		Active:   true,
		Spot:     true,
		MakerFee: takerFee,
		TakerFee: takerFee,
	}
}

// Ticker creates a ticker around a mid price.
func Ticker(symbol string, mid float64) *types.Ticker {
	return &types.Ticker{
		Symbol:     symbol,
		Last:       mid,
		Bid:        mid * 0.999,
		Ask:        mid * 1.001,
		BaseVolume: 10000,
	}
}

// Book creates a two-level order book with ample depth around mid.
func Book(mid float64) *types.OrderBook {
	return &types.OrderBook{
		Bids: []types.Level{
			{Price: mid * 0.999, Amount: 50},
			{Price: mid * 0.998, Amount: 100},
		},
		Asks: []types.Level{
			{Price: mid * 1.001, Amount: 50},
			{Price: mid * 1.002, Amount: 100},
		},
	}
}

// PairSnapshot assembles a snapshot for engine tests from a book and fee.
func PairSnapshot(symbol string, venue types.VenueID, book *types.OrderBook, takerFee float64) *types.PairSnapshot {
	return &types.PairSnapshot{
		Symbol: symbol,
		Venue:  venue,
		Price: types.PriceBlock{
			Last:   book.Bids[0].Price,
			Bid:    book.Bids[0].Price,
			Ask:    book.Asks[0].Price,
			Volume: 10000,
		},
		OrderBook: types.OrderBookBlock{
			BestBid: book.Bids[0].Price,
			BestAsk: book.Asks[0].Price,
			Bids:    book.Bids,
			Asks:    book.Asks,
		},
		Fees: types.FeeBlock{
			Maker: takerFee,
			Taker: takerFee,
		},
		FetchedAt: time.Unix(1700000000, 0),
	}
}
