package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/spotarb/spot-arb/internal/testutil"
	"github.com/spotarb/spot-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	e := New(cfg)
	e.now = func() time.Time { return time.Unix(1700000000, 0) }
	return e
}

func book(asks, bids []types.Level) *types.OrderBook {
	return &types.OrderBook{Bids: bids, Asks: asks}
}

func snapshot(symbol string, venue types.VenueID, b *types.OrderBook, takerFee float64) *types.PairSnapshot {
	return testutil.PairSnapshot(symbol, venue, b, takerFee)
}

func TestComputeSimpleSpread(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	buyBook := book(
		[]types.Level{{Price: 100, Amount: 50}, {Price: 100.2, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 50}},
	)
	sellBook := book(
		[]types.Level{{Price: 102.5, Amount: 50}},
		[]types.Level{{Price: 102, Amount: 50}, {Price: 101, Amount: 100}},
	)

	all := types.AllData{
		"BTC/USDT": {
			types.VenueGate:    snapshot("BTC/USDT", types.VenueGate, buyBook, 0.001),
			types.VenueBinance: snapshot("BTC/USDT", types.VenueBinance, sellBook, 0.001),
		},
	}

	opportunities, counters := e.Compute(all)

	// Two directed pairings; only gate->binance has positive spread.
	assert.Equal(t, 2, counters.PairsChecked)
	require.Len(t, opportunities, 1)

	opp := opportunities[0]
	assert.Equal(t, "BTC/USDT", opp.Symbol)
	assert.Equal(t, types.VenueGate, opp.BuyVenue)
	assert.Equal(t, types.VenueBinance, opp.SellVenue)

	assert.InDelta(t, 100.0, opp.BuyPrice, 1e-9)
	assert.InDelta(t, 102.0, opp.SellPrice, 1e-9)
	// Trade size fits the top level on both sides: no slippage.
	assert.InDelta(t, 100.0, opp.BuyEffective, 1e-9)
	assert.InDelta(t, 102.0, opp.SellEffective, 1e-9)
	assert.InDelta(t, 0.0, opp.Slippage.BuyAbs, 1e-9)
	assert.InDelta(t, 0.0, opp.Slippage.SellAbs, 1e-9)

	assert.InDelta(t, 10.0, opp.Quantity, 1e-9)
	assert.InDelta(t, 2.0, opp.SpreadAbs, 1e-9)
	assert.InDelta(t, 2.0, opp.SpreadPct, 1e-9)
	assert.InDelta(t, 2.0, opp.RawSpreadPct, 1e-9)

	// fees = 10*100*0.001 + 10*102*0.001
	assert.InDelta(t, 2.02, opp.Fees.TradingAbs, 1e-9)
	assert.InDelta(t, 0.0, opp.Fees.NetworkAbs, 1e-9)
	assert.InDelta(t, 17.98, opp.NetProfitAbs, 1e-9)
	assert.InDelta(t, 1.798, opp.NetProfitPct, 1e-9)

	assert.InDelta(t, 150.0, opp.BuyLiquidity, 1e-9)
	assert.InDelta(t, 150.0, opp.SellLiquidity, 1e-9)
	assert.InDelta(t, 150.0, opp.Liquidity, 1e-9)

	assert.InDelta(t, 0.98, opp.Estimates.ConfidenceScore, 1e-3)
	assert.GreaterOrEqual(t, opp.Risk.LiquidityRisk, 0.0)
	assert.InDelta(t, 0.0, opp.Risk.ExecutionRisk, 1e-9)

	assert.Equal(t, "BTC/USDT_gate_binance_1700000000000000000", opp.ID)
}

func TestComputeDeterministic(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 500, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	all := types.AllData{
		"ETH/USDT": {
			types.VenueKucoin: snapshot("ETH/USDT", types.VenueKucoin, testutil.Book(2000), 0.001),
			types.VenueMexc:   snapshot("ETH/USDT", types.VenueMexc, testutil.Book(2010), 0.002),
			types.VenueBybit:  snapshot("ETH/USDT", types.VenueBybit, testutil.Book(1995), 0.001),
		},
		"BTC/USDT": {
			types.VenueBinance: snapshot("BTC/USDT", types.VenueBinance, testutil.Book(60000), 0.001),
			types.VenueGate:    snapshot("BTC/USDT", types.VenueGate, testutil.Book(60200), 0.002),
		},
	}

	first, firstCounters := e.Compute(all)
	second, secondCounters := e.Compute(all)

	assert.True(t, reflect.DeepEqual(first, second))
	assert.Equal(t, firstCounters, secondCounters)
}

func TestComputeNoSelfArbitrage(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 100, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	all := types.AllData{
		"BTC/USDT": {
			types.VenueBinance: snapshot("BTC/USDT", types.VenueBinance, testutil.Book(60000), 0.001),
		},
	}

	opportunities, counters := e.Compute(all)
	assert.Empty(t, opportunities)
	assert.Equal(t, 0, counters.PairsChecked)
}

func TestComputeNegativeNetStillEmitted(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	// 0.1% spread, 0.2% taker each side: fees swamp the spread.
	buyBook := book(
		[]types.Level{{Price: 100, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	)
	sellBook := book(
		[]types.Level{{Price: 100.2, Amount: 100}},
		[]types.Level{{Price: 100.1, Amount: 100}},
	)

	all := types.AllData{
		"SOL/USDT": {
			types.VenueGate:   snapshot("SOL/USDT", types.VenueGate, buyBook, 0.002),
			types.VenueBitget: snapshot("SOL/USDT", types.VenueBitget, sellBook, 0.002),
		},
	}

	opportunities, _ := e.Compute(all)
	require.Len(t, opportunities, 1)
	assert.Negative(t, opportunities[0].NetProfitAbs)
	assert.Negative(t, opportunities[0].NetProfitPct)
	assert.Positive(t, opportunities[0].SpreadPct)
}

func TestComputeSpreadThreshold(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 1.0, MinTradeUSDT: 1})

	buyBook := book(
		[]types.Level{{Price: 100, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	)
	sellBook := book(
		[]types.Level{{Price: 100.6, Amount: 100}},
		[]types.Level{{Price: 100.5, Amount: 100}},
	)

	all := types.AllData{
		"XRP/USDT": {
			types.VenueGate: snapshot("XRP/USDT", types.VenueGate, buyBook, 0.001),
			types.VenueMexc: snapshot("XRP/USDT", types.VenueMexc, sellBook, 0.001),
		},
	}

	opportunities, counters := e.Compute(all)
	assert.Empty(t, opportunities)
	assert.Equal(t, 2, counters.PairsBelowSpread)
}

func TestComputeNotionalThreshold(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 10, MinRawSpreadPct: 0, MinTradeUSDT: 500})

	all := types.AllData{
		"BTC/USDT": {
			types.VenueGate:    snapshot("BTC/USDT", types.VenueGate, testutil.Book(100), 0.001),
			types.VenueBinance: snapshot("BTC/USDT", types.VenueBinance, testutil.Book(105), 0.001),
		},
	}

	opportunities, counters := e.Compute(all)
	assert.Empty(t, opportunities)
	assert.Equal(t, 1, counters.PairsBelowNotional)
}

func TestComputeLimitsRejection(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	buy := snapshot("ADA/USDT", types.VenueKucoin, book(
		[]types.Level{{Price: 100, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	), 0.001)
	sell := snapshot("ADA/USDT", types.VenueBybit, book(
		[]types.Level{{Price: 102.1, Amount: 100}},
		[]types.Level{{Price: 102, Amount: 100}},
	), 0.001)

	// Effective quantity is 10; buy side demands at least 50.
	buy.Limits = types.Limits{MinAmount: 50}

	all := types.AllData{
		"ADA/USDT": {
			types.VenueKucoin: buy,
			types.VenueBybit:  sell,
		},
	}

	opportunities, counters := e.Compute(all)
	assert.Empty(t, opportunities)
	assert.Equal(t, 1, counters.PairsLimitsFail)
}

func TestComputeZeroLimitsMeanAbsent(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	buy := snapshot("ADA/USDT", types.VenueKucoin, book(
		[]types.Level{{Price: 100, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	), 0.001)
	sell := snapshot("ADA/USDT", types.VenueBybit, book(
		[]types.Level{{Price: 102.1, Amount: 100}},
		[]types.Level{{Price: 102, Amount: 100}},
	), 0.001)

	buy.Limits = types.Limits{}
	sell.Limits = types.Limits{}

	all := types.AllData{
		"ADA/USDT": {
			types.VenueKucoin: buy,
			types.VenueBybit:  sell,
		},
	}

	opportunities, counters := e.Compute(all)
	assert.Len(t, opportunities, 1)
	assert.Equal(t, 0, counters.PairsLimitsFail)
}

func TestComputeQuantityCappedByDepth(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 10000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	// Buy side can fill 100 units, sell side only 30.
	buyBook := book(
		[]types.Level{{Price: 100, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	)
	sellBook := book(
		[]types.Level{{Price: 103.1, Amount: 30}},
		[]types.Level{{Price: 103, Amount: 30}},
	)

	all := types.AllData{
		"DOT/USDT": {
			types.VenueGate: snapshot("DOT/USDT", types.VenueGate, buyBook, 0.001),
			types.VenueMexc: snapshot("DOT/USDT", types.VenueMexc, sellBook, 0.001),
		},
	}

	opportunities, _ := e.Compute(all)
	require.Len(t, opportunities, 1)
	assert.InDelta(t, 30.0, opportunities[0].Quantity, 1e-9)
}

func TestComputeSlippageFromWalk(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1500, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	// qInt = 15, top ask holds 10: the remaining 5 fill at 101.
	buyBook := book(
		[]types.Level{{Price: 100, Amount: 10}, {Price: 101, Amount: 100}},
		[]types.Level{{Price: 99.9, Amount: 100}},
	)
	sellBook := book(
		[]types.Level{{Price: 105.1, Amount: 100}},
		[]types.Level{{Price: 105, Amount: 100}},
	)

	all := types.AllData{
		"LTC/USDT": {
			types.VenueBitget:  snapshot("LTC/USDT", types.VenueBitget, buyBook, 0.001),
			types.VenueBinance: snapshot("LTC/USDT", types.VenueBinance, sellBook, 0.001),
		},
	}

	opportunities, _ := e.Compute(all)
	require.Len(t, opportunities, 1)

	opp := opportunities[0]
	// (10*100 + 5*101) / 15
	assert.InDelta(t, 100.333333333, opp.BuyEffective, 1e-6)
	assert.InDelta(t, opp.BuyEffective-100, opp.Slippage.BuyAbs, 1e-9)
	assert.InDelta(t, 0.0, opp.Slippage.SellAbs, 1e-9)
	assert.InDelta(t, opp.Slippage.BuyAbs, opp.Risk.ExecutionRisk, 1e-8)
}

func TestComputeSortedBySpreadDescending(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	all := types.AllData{
		"AAA/USDT": {
			types.VenueGate:    snapshot("AAA/USDT", types.VenueGate, testutil.Book(100), 0.001),
			types.VenueBinance: snapshot("AAA/USDT", types.VenueBinance, testutil.Book(101), 0.001),
		},
		"BBB/USDT": {
			types.VenueGate:    snapshot("BBB/USDT", types.VenueGate, testutil.Book(100), 0.001),
			types.VenueBinance: snapshot("BBB/USDT", types.VenueBinance, testutil.Book(105), 0.001),
		},
	}

	opportunities, _ := e.Compute(all)
	require.NotEmpty(t, opportunities)

	for i := 1; i < len(opportunities); i++ {
		assert.GreaterOrEqual(t, opportunities[i-1].SpreadPct, opportunities[i].SpreadPct)
	}
	assert.Equal(t, "BBB/USDT", opportunities[0].Symbol)
}

func TestComputeMissingBookCounted(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 1000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	buy := snapshot("BTC/USDT", types.VenueGate, testutil.Book(100), 0.001)
	buy.OrderBook.Asks = nil

	all := types.AllData{
		"BTC/USDT": {
			types.VenueGate:    buy,
			types.VenueBinance: snapshot("BTC/USDT", types.VenueBinance, testutil.Book(101), 0.001),
		},
	}

	_, counters := e.Compute(all)
	assert.Equal(t, 1, counters.PairsMissingOB)
}

func TestWalkBookPartialFill(t *testing.T) {
	levels := []types.Level{
		{Price: 10, Amount: 2},
		{Price: 11, Amount: 3},
	}

	filled, cost := walkBook(levels, 4)
	assert.InDelta(t, 4.0, filled, 1e-9)
	assert.InDelta(t, 2*10+2*11.0, cost, 1e-9)

	filled, cost = walkBook(levels, 10)
	assert.InDelta(t, 5.0, filled, 1e-9)
	assert.InDelta(t, 2*10+3*11.0, cost, 1e-9)
}

func TestConfidenceAndRiskBounds(t *testing.T) {
	e := newTestEngine(Config{TradeSizeUSDT: 5000, MinRawSpreadPct: 0, MinTradeUSDT: 1})

	// Thin books to stress slippage and liquidity scoring.
	buyBook := book(
		[]types.Level{{Price: 100, Amount: 5}, {Price: 110, Amount: 50}},
		[]types.Level{{Price: 99, Amount: 5}},
	)
	sellBook := book(
		[]types.Level{{Price: 121, Amount: 5}},
		[]types.Level{{Price: 120, Amount: 5}, {Price: 115, Amount: 50}},
	)

	all := types.AllData{
		"PEPE/USDT": {
			types.VenueMexc:  snapshot("PEPE/USDT", types.VenueMexc, buyBook, 0.002),
			types.VenueBybit: snapshot("PEPE/USDT", types.VenueBybit, sellBook, 0.002),
		},
	}

	opportunities, _ := e.Compute(all)
	require.NotEmpty(t, opportunities)

	for _, opp := range opportunities {
		assert.GreaterOrEqual(t, opp.Estimates.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, opp.Estimates.ConfidenceScore, 1.0)
		assert.GreaterOrEqual(t, opp.Risk.MarketVolatility, 0.0)
		assert.GreaterOrEqual(t, opp.Risk.ExecutionRisk, 0.0)
		assert.GreaterOrEqual(t, opp.Risk.LiquidityRisk, 0.0)
		assert.GreaterOrEqual(t, opp.Risk.FeeRisk, 0.0)
	}
}
