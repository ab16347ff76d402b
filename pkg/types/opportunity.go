package types

import (
	"fmt"
	"time"
)

// OpportunityFees is the fee section of an opportunity.
type OpportunityFees struct {
	TradingAbs float64 `json:"tradingAbs"`
	NetworkAbs float64 `json:"networkAbs"`
	TakerBuy   float64 `json:"takerBuy"`
	TakerSell  float64 `json:"takerSell"`
}

// OpportunitySlippage is the slippage section of an opportunity.
type OpportunitySlippage struct {
	BuyAbs  float64 `json:"buyAbs"`
	SellAbs float64 `json:"sellAbs"`
}

// OpportunityLimits carries the per-side exchange limits for reference.
type OpportunityLimits struct {
	Buy  Limits `json:"buy"`
	Sell Limits `json:"sell"`
}

// OpportunityEstimates holds derived quality estimates.
type OpportunityEstimates struct {
	ConfidenceScore float64 `json:"confidenceScore"`
}

// OpportunityRisk holds the non-negative risk components.
type OpportunityRisk struct {
	MarketVolatility float64 `json:"marketVolatility"`
	ExecutionRisk    float64 `json:"executionRisk"`
	LiquidityRisk    float64 `json:"liquidityRisk"`
	FeeRisk          float64 `json:"feeRisk"`
}

// Opportunity is a directed buy->sell pairing on a symbol that passed all
// thresholds and limit checks, with its computed economics. Field names
// match the published wire format.
type Opportunity struct {
	ID            string               `json:"id"`
	Symbol        string               `json:"symbol"`
	BuyVenue      VenueID              `json:"buyExchange"`
	SellVenue     VenueID              `json:"sellExchange"`
	BuyPrice      float64              `json:"buyPrice"`
	SellPrice     float64              `json:"sellPrice"`
	BuyEffective  float64              `json:"buyEffective"`
	SellEffective float64              `json:"sellEffective"`
	Quantity      float64              `json:"quantity"`
	Volume24h     float64              `json:"volume24h"`
	SpreadAbs     float64              `json:"spreadAbs"`
	SpreadPct     float64              `json:"spreadPct"`
	RawSpreadPct  float64              `json:"rawSpreadPct"`
	Fees          OpportunityFees      `json:"fees"`
	Slippage      OpportunitySlippage  `json:"slippage"`
	NetProfitAbs  float64              `json:"netProfitAbs"`
	NetProfitPct  float64              `json:"netProfitPct"`
	Liquidity     float64              `json:"liquidity"`
	BuyLiquidity  float64              `json:"buyLiquidity"`
	SellLiquidity float64              `json:"sellLiquidity"`
	Limits        OpportunityLimits    `json:"limits"`
	Estimates     OpportunityEstimates `json:"estimates"`
	Risk          OpportunityRisk      `json:"risk"`
	Timestamp     time.Time            `json:"ts"`
}

// String returns a compact human-readable representation.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] %s->%s buy=%.8f sell=%.8f qty=%.8f spread=%.4f%% net=%.4f%%",
		o.Symbol, o.BuyVenue, o.SellVenue,
		o.BuyEffective, o.SellEffective, o.Quantity,
		o.SpreadPct, o.NetProfitPct,
	)
}
