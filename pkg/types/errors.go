package types

import "fmt"

// FetchErrorKind classifies why a (venue, symbol) pair could not produce a
// snapshot. Kinds are plain values, not exceptions; a tick never fails on
// any of them.
type FetchErrorKind string

const (
	FetchUnsupportedVenue     FetchErrorKind = "UnsupportedVenue"
	FetchMarketsUnavailable   FetchErrorKind = "MarketsUnavailable"
	FetchUnknownSymbol        FetchErrorKind = "UnknownSymbol"
	FetchInactive             FetchErrorKind = "Inactive"
	FetchNotSpot              FetchErrorKind = "NotSpot"
	FetchTickerUnavailable    FetchErrorKind = "TickerUnavailable"
	FetchOrderBookUnavailable FetchErrorKind = "OrderBookUnavailable"
)

// FetchError is the typed failure outcome of a pair fetch.
type FetchError struct {
	Kind   FetchErrorKind
	Venue  VenueID
	Symbol string
	Detail string
}

func (e *FetchError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s %s", e.Kind, e.Venue, e.Symbol)
	}
	return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Venue, e.Symbol, e.Detail)
}

// NewFetchError builds a FetchError for the given pair.
func NewFetchError(kind FetchErrorKind, venue VenueID, symbol, detail string) *FetchError {
	return &FetchError{Kind: kind, Venue: venue, Symbol: symbol, Detail: detail}
}
