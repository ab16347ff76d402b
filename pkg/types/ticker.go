package types

// Ticker is a normalized venue ticker.
type Ticker struct {
	Symbol     string  `json:"symbol"`
	Last       float64 `json:"last"`
	Bid        float64 `json:"bid"`
	Ask        float64 `json:"ask"`
	BaseVolume float64 `json:"baseVolume"`
	// Percentage is the venue-reported price change percentage. Venues
	// differ on the reference window (24h vs since-open); it is used only
	// as an opaque magnitude in the volatility risk term.
	Percentage float64 `json:"percentage"`
}
