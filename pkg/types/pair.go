package types

import "time"

// PriceBlock is the ticker-derived price section of a pair snapshot.
type PriceBlock struct {
	Last      float64 `json:"last"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Spread    float64 `json:"spread"`
	Volume    float64 `json:"volume"`
	ChangePct float64 `json:"changePct"`
}

// OrderBookBlock is the depth section of a pair snapshot.
type OrderBookBlock struct {
	BestBid float64 `json:"bestBid"`
	BestAsk float64 `json:"bestAsk"`
	Bids    []Level `json:"bids"`
	Asks    []Level `json:"asks"`
}

// FeeBlock carries the venue trading fees for a pair. Withdrawal and
// network fees are fixed at zero under the pre-funded balances model.
type FeeBlock struct {
	Maker      float64  `json:"maker"`
	Taker      float64  `json:"taker"`
	Withdrawal *float64 `json:"withdrawal"`
	Deposit    float64  `json:"deposit"`
	Network    float64  `json:"network"`
}

// PairSnapshot is one successful (venue, symbol) observation within a tick.
type PairSnapshot struct {
	Symbol    string         `json:"symbol"`
	Venue     VenueID        `json:"exchange"`
	Price     PriceBlock     `json:"price"`
	OrderBook OrderBookBlock `json:"orderbook"`
	Fees      FeeBlock       `json:"fees"`
	Limits    Limits         `json:"limits"`
	Precision Precision      `json:"precision"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// AllData maps symbol -> venue -> snapshot, restricted to successful
// fetches. Every nested entry has a non-empty top of book.
type AllData map[string]map[VenueID]*PairSnapshot

// Snapshot is the published per-tick market view.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Data      AllData   `json:"data"`
}

// OpportunitiesSet is the published per-tick ranked opportunity list.
type OpportunitiesSet struct {
	Timestamp time.Time     `json:"timestamp"`
	Items     []Opportunity `json:"items"`
}
