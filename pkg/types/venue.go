package types

// VenueID identifies a supported exchange venue.
type VenueID string

// Supported venues. Registry order is significant: the opportunity engine
// iterates venues in this order so its output is reproducible.
const (
	VenueBinance VenueID = "binance"
	VenueKucoin  VenueID = "kucoin"
	VenueGate    VenueID = "gate"
	VenueBitget  VenueID = "bitget"
	VenueMexc    VenueID = "mexc"
	VenueBybit   VenueID = "bybit"
)

//nolint:gochecknoglobals // Fixed registry, read-only after init.
var venueRegistry = []VenueID{
	VenueBinance,
	VenueKucoin,
	VenueGate,
	VenueBitget,
	VenueMexc,
	VenueBybit,
}

// Venues returns the supported venue registry in canonical order.
func Venues() []VenueID {
	out := make([]VenueID, len(venueRegistry))
	copy(out, venueRegistry)
	return out
}

// IsVenue reports whether id is in the supported venue registry.
func IsVenue(id VenueID) bool {
	for _, v := range venueRegistry {
		if v == id {
			return true
		}
	}
	return false
}

// VenueIndex returns the registry position of id, or -1 if unsupported.
func VenueIndex(id VenueID) int {
	for i, v := range venueRegistry {
		if v == id {
			return i
		}
	}
	return -1
}
