package types

// Level is a single order-book price level.
type Level struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderBook holds up to DepthLimit levels per side as returned by a venue.
// Asks are sorted by price ascending, bids descending.
type OrderBook struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// DepthLimit is the number of levels requested per order-book side.
const DepthLimit = 20

// BestBid returns the top bid level, or false if the side is empty.
func (ob *OrderBook) BestBid() (Level, bool) {
	if len(ob.Bids) == 0 {
		return Level{}, false
	}
	return ob.Bids[0], true
}

// BestAsk returns the top ask level, or false if the side is empty.
func (ob *OrderBook) BestAsk() (Level, bool) {
	if len(ob.Asks) == 0 {
		return Level{}, false
	}
	return ob.Asks[0], true
}

// Valid reports whether both sides are non-empty with positive prices and
// non-negative amounts, and the top of book does not cross.
func (ob *OrderBook) Valid() bool {
	if len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return false
	}
	for _, l := range ob.Bids {
		if l.Price <= 0 || l.Amount < 0 {
			return false
		}
	}
	for _, l := range ob.Asks {
		if l.Price <= 0 || l.Amount < 0 {
			return false
		}
	}
	return ob.Asks[0].Price >= ob.Bids[0].Price
}

// SideDepth returns the total base amount across the given levels.
func SideDepth(levels []Level) float64 {
	var sum float64
	for _, l := range levels {
		sum += l.Amount
	}
	return sum
}
