package exchange

import (
	"fmt"
	"time"

	"github.com/spotarb/spot-arb/pkg/cache"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// AdapterSource resolves venue identifiers to adapters. Implemented by
// Registry; consumers depend on this so tests can substitute fakes.
type AdapterSource interface {
	Adapter(id types.VenueID) *Adapter
}

// Registry maps venue identifiers to their adapters.
type Registry struct {
	adapters map[types.VenueID]*Adapter
	order    []types.VenueID
}

// RegistryConfig holds registry construction parameters.
type RegistryConfig struct {
	Venues        []types.VenueID
	Timeout       time.Duration
	RateRPS       float64
	RateBurst     int
	ResponseCache cache.Cache
	CacheTTL      time.Duration
	Logger        *zap.Logger
}

// NewRegistry builds adapters for the requested venues. An unsupported
// venue identifier is a configuration error and fatal at startup.
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if len(cfg.Venues) == 0 {
		return nil, fmt.Errorf("empty venue registry")
	}

	adapters := make(map[types.VenueID]*Adapter, len(cfg.Venues))
	order := make([]types.VenueID, 0, len(cfg.Venues))

	for _, id := range cfg.Venues {
		venue, err := newVenue(id, cfg.Timeout, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("construct venue %s: %w", id, err)
		}

		adapters[id] = NewAdapter(venue, AdapterConfig{
			RateRPS:   cfg.RateRPS,
			RateBurst: cfg.RateBurst,
			Cache:     cfg.ResponseCache,
			CacheTTL:  cfg.CacheTTL,
			Logger:    cfg.Logger,
		})
		order = append(order, id)
	}

	return &Registry{adapters: adapters, order: order}, nil
}

// newVenue constructs the raw venue implementation for id. Credentials are
// not needed for the public read endpoints this scanner uses.
func newVenue(id types.VenueID, timeout time.Duration, logger *zap.Logger) (Venue, error) {
	switch id {
	case types.VenueBinance:
		return newBinance(timeout, logger), nil
	case types.VenueKucoin:
		return newKucoin(timeout, logger), nil
	case types.VenueGate:
		return newGate(timeout, logger), nil
	case types.VenueBitget:
		return newBitget(timeout, logger), nil
	case types.VenueMexc:
		return newMexc(timeout, logger), nil
	case types.VenueBybit:
		return newBybit(timeout, logger), nil
	default:
		return nil, fmt.Errorf("unsupported venue %q", id)
	}
}

// Adapter returns the adapter for id, or nil if the venue is not in this
// registry.
func (r *Registry) Adapter(id types.VenueID) *Adapter {
	return r.adapters[id]
}

// Venues returns the registry's venues in construction order.
func (r *Registry) Venues() []types.VenueID {
	out := make([]types.VenueID, len(r.order))
	copy(out, r.order)
	return out
}
