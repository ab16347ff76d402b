package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Engine computes ranked arbitrage opportunities from a tick's market
// data. It is a pure function of its inputs: identical AllData and
// configuration yield identical output, including ordering.
type Engine struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// Config holds engine thresholds.
type Config struct {
	TradeSizeUSDT   float64
	MinRawSpreadPct float64
	MinTradeUSDT    float64
	Debug           bool
	Logger          *zap.Logger
}

// Counters tracks per-tick rejection reasons, reported in debug mode.
type Counters struct {
	PairsChecked          int
	PairsMissingOB        int
	PairsInsufficientFill int
	PairsBelowSpread      int
	PairsBelowNotional    int
	PairsLimitsFail       int
}

// New creates an opportunity engine.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// Compute evaluates every ordered (buy, sell) venue pairing for every
// symbol in all and returns the admitted opportunities sorted by spreadPct
// descending. Ties keep insertion order: symbols alphabetical, venues in
// registry order.
func (e *Engine) Compute(all types.AllData) ([]types.Opportunity, Counters) {
	var counters Counters

	symbols := make([]string, 0, len(all))
	for symbol := range all {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var opportunities []types.Opportunity

	for _, symbol := range symbols {
		byVenue := all[symbol]

		venues := make([]types.VenueID, 0, len(byVenue))
		for venue := range byVenue {
			venues = append(venues, venue)
		}
		sort.Slice(venues, func(i, j int) bool {
			return types.VenueIndex(venues[i]) < types.VenueIndex(venues[j])
		})

		for _, buyVenue := range venues {
			for _, sellVenue := range venues {
				if buyVenue == sellVenue {
					continue
				}

				opp, ok := e.evaluate(symbol, byVenue[buyVenue], byVenue[sellVenue], &counters)
				if !ok {
					continue
				}
				opportunities = append(opportunities, opp)
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].SpreadPct > opportunities[j].SpreadPct
	})

	if e.cfg.Debug {
		e.logger.Info("engine-counters",
			zap.Int("pairs-checked", counters.PairsChecked),
			zap.Int("pairs-missing-ob", counters.PairsMissingOB),
			zap.Int("pairs-insufficient-fill", counters.PairsInsufficientFill),
			zap.Int("pairs-below-spread", counters.PairsBelowSpread),
			zap.Int("pairs-below-notional", counters.PairsBelowNotional),
			zap.Int("pairs-limits-fail", counters.PairsLimitsFail),
			zap.Int("opportunities", len(opportunities)))
	}

	OpportunitiesEmittedTotal.Add(float64(len(opportunities)))

	return opportunities, counters
}

// evaluate runs the full admission pipeline for one directed pairing.
func (e *Engine) evaluate(symbol string, buy, sell *types.PairSnapshot, counters *Counters) (types.Opportunity, bool) {
	counters.PairsChecked++

	if len(buy.OrderBook.Asks) == 0 || len(sell.OrderBook.Bids) == 0 {
		counters.PairsMissingOB++
		RejectionsTotal.WithLabelValues("missing_orderbook").Inc()
		return types.Opportunity{}, false
	}

	buyAsk := buy.OrderBook.Asks[0].Price
	sellBid := sell.OrderBook.Bids[0].Price
	if buyAsk <= 0 || sellBid <= 0 {
		counters.PairsMissingOB++
		RejectionsTotal.WithLabelValues("missing_orderbook").Inc()
		return types.Opportunity{}, false
	}

	// Intended base quantity for the configured notional.
	qInt := e.cfg.TradeSizeUSDT / buyAsk

	filledBuy, costBuy := walkBook(buy.OrderBook.Asks, qInt)
	filledSell, costSell := walkBook(sell.OrderBook.Bids, qInt)
	if filledBuy <= 0 || filledSell <= 0 {
		counters.PairsInsufficientFill++
		RejectionsTotal.WithLabelValues("insufficient_fill").Inc()
		return types.Opportunity{}, false
	}

	buyEff := costBuy / filledBuy
	sellEff := costSell / filledSell
	slipBuy := math.Abs(buyEff - buyAsk)
	slipSell := math.Abs(sellEff - sellBid)

	qEff := math.Min(filledBuy, filledSell)
	if qEff <= 0 {
		counters.PairsInsufficientFill++
		RejectionsTotal.WithLabelValues("insufficient_fill").Inc()
		return types.Opportunity{}, false
	}

	spreadAbs := sellEff - buyEff
	spreadPct := spreadAbs / buyEff * 100
	if spreadPct <= e.cfg.MinRawSpreadPct {
		counters.PairsBelowSpread++
		RejectionsTotal.WithLabelValues("below_spread").Inc()
		return types.Opportunity{}, false
	}

	notionalBuy := buyEff * qEff
	if notionalBuy < e.cfg.MinTradeUSDT {
		counters.PairsBelowNotional++
		RejectionsTotal.WithLabelValues("below_notional").Inc()
		return types.Opportunity{}, false
	}

	takerBuy := buy.Fees.Taker
	takerSell := sell.Fees.Taker
	feesAbs := qEff*buyEff*takerBuy + qEff*sellEff*takerSell

	gross := spreadAbs * qEff
	net := gross - feesAbs
	netPct := net / (buyEff * qEff) * 100

	buyLiq := types.SideDepth(buy.OrderBook.Asks)
	sellLiq := types.SideDepth(sell.OrderBook.Bids)
	avail := math.Min(buyLiq, sellLiq)

	if !admitLimits(qEff, notionalBuy, sellEff*qEff, buy.Limits, sell.Limits) {
		counters.PairsLimitsFail++
		RejectionsTotal.WithLabelValues("limits_fail").Inc()
		return types.Opportunity{}, false
	}

	if net <= 0 && e.cfg.Debug {
		e.logger.Debug("opportunity-negative-after-fees",
			zap.String("symbol", symbol),
			zap.String("buy-venue", string(buy.Venue)),
			zap.String("sell-venue", string(sell.Venue)),
			zap.Float64("spread-pct", spreadPct),
			zap.Float64("net-pct", netPct))
	}

	liquidityRisk := 1.0
	if qEff <= avail {
		liquidityRisk = math.Max(0, 1-avail/(qEff*5))
	}

	slipScore := math.Max(0, 1-math.Min((slipBuy+slipSell)/buyEff, 0.02))
	liqScore := math.Min(1, avail/(qEff*10))
	feeScore := math.Max(0, 1-math.Min(feesAbs/gross, 0.9))
	confidence := round3(0.5*slipScore + 0.3*liqScore + 0.2*feeScore)

	ts := e.now()

	opp := types.Opportunity{
		ID:            fmt.Sprintf("%s_%s_%s_%d", symbol, buy.Venue, sell.Venue, ts.UnixNano()),
		Symbol:        symbol,
		BuyVenue:      buy.Venue,
		SellVenue:     sell.Venue,
		BuyPrice:      buyAsk,
		SellPrice:     sellBid,
		BuyEffective:  buyEff,
		SellEffective: sellEff,
		Quantity:      qEff,
		Volume24h:     buy.Price.Volume,
		SpreadAbs:     spreadAbs,
		SpreadPct:     spreadPct,
		RawSpreadPct:  (sellBid - buyAsk) / buyAsk * 100,
		Fees: types.OpportunityFees{
			TradingAbs: feesAbs,
			NetworkAbs: 0, // pre-funded balances, no transfer leg
			TakerBuy:   takerBuy,
			TakerSell:  takerSell,
		},
		Slippage: types.OpportunitySlippage{
			BuyAbs:  slipBuy,
			SellAbs: slipSell,
		},
		NetProfitAbs:  net,
		NetProfitPct:  netPct,
		Liquidity:     avail,
		BuyLiquidity:  buyLiq,
		SellLiquidity: sellLiq,
		Limits: types.OpportunityLimits{
			Buy:  buy.Limits,
			Sell: sell.Limits,
		},
		Estimates: types.OpportunityEstimates{
			ConfidenceScore: confidence,
		},
		Risk: types.OpportunityRisk{
			MarketVolatility: math.Abs(buy.Price.ChangePct - sell.Price.ChangePct),
			ExecutionRisk:    round8(slipBuy + slipSell),
			LiquidityRisk:    liquidityRisk,
			FeeRisk:          feesAbs / math.Max(gross, 1e-9),
		},
		Timestamp: ts,
	}

	return opp, true
}

// walkBook consumes levels in order until qty is filled or the side
// exhausts, returning the filled base amount and the quote cost.
func walkBook(levels []types.Level, qty float64) (filled, cost float64) {
	remaining := qty
	for _, l := range levels {
		if remaining <= 0 {
			break
		}
		take := math.Min(remaining, l.Amount)
		filled += take
		cost += take * l.Price
		remaining -= take
	}
	return filled, cost
}

// admitLimits checks the effective quantity and notionals against the
// exchange-imposed bounds. A zero bound means the venue does not publish
// it and the check is skipped.
func admitLimits(qEff, notionalBuy, notionalSell float64, buy, sell types.Limits) bool {
	for _, side := range []types.Limits{buy, sell} {
		if side.MinAmount > 0 && qEff < side.MinAmount {
			return false
		}
		if side.MaxAmount > 0 && qEff > side.MaxAmount {
			return false
		}
	}

	if buy.MinCost > 0 && notionalBuy < buy.MinCost {
		return false
	}
	if buy.MaxCost > 0 && notionalBuy > buy.MaxCost {
		return false
	}
	if sell.MinCost > 0 && notionalSell < sell.MinCost {
		return false
	}
	if sell.MaxCost > 0 && notionalSell > sell.MaxCost {
		return false
	}

	return true
}

func round3(x float64) float64 {
	return math.Round(x*1e3) / 1e3
}

func round8(x float64) float64 {
	return math.Round(x*1e8) / 1e8
}
