package types

import "strings"

// Limits holds exchange-imposed order constraints for a market.
// A zero value means the venue does not publish that bound.
type Limits struct {
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
	MinPrice  float64 `json:"minPrice"`
	MaxPrice  float64 `json:"maxPrice"`
	MinCost   float64 `json:"minCost"`
	MaxCost   float64 `json:"maxCost"`
}

// Precision holds price and amount precision in decimal places.
type Precision struct {
	Price  int `json:"price"`
	Amount int `json:"amount"`
}

// MarketMeta describes a tradeable market on a venue. Populated once from
// the venue's market listing and immutable thereafter.
type MarketMeta struct {
	Symbol    string // canonical "BASE/QUOTE"
	Active    bool
	Spot      bool
	MakerFee  float64 // fraction, e.g. 0.001
	TakerFee  float64
	Limits    Limits
	Precision Precision
}

// IsUSDTQuoted reports whether symbol is quoted in USDT.
func IsUSDTQuoted(symbol string) bool {
	return strings.HasSuffix(symbol, "/USDT")
}

// SplitSymbol splits a canonical "BASE/QUOTE" symbol. Returns empty strings
// if the symbol is not in canonical form.
func SplitSymbol(symbol string) (base, quote string) {
	i := strings.IndexByte(symbol, '/')
	if i <= 0 || i == len(symbol)-1 {
		return "", ""
	}
	return symbol[:i], symbol[i+1:]
}
