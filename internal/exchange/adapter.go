package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/spotarb/spot-arb/pkg/cache"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Venue is the raw per-venue API surface. Implementations talk to one
// exchange's public REST API and normalize its responses.
type Venue interface {
	ID() types.VenueID
	LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error)
	FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error)
	FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error)
}

// Adapter wraps a Venue with rate limiting, a circuit breaker, a bounded
// retry on rate-limit errors, and a short-TTL response cache. Failures
// never cross the adapter boundary: every method resolves to a nil outcome
// and logs the reason.
type Adapter struct {
	venue    Venue
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// AdapterConfig holds per-venue adapter tuning.
type AdapterConfig struct {
	RateRPS   float64
	RateBurst int
	Cache     cache.Cache // optional; nil disables response caching
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

// rateLimitBackoff is the wait before the single retry after a venue
// signals throttling.
const rateLimitBackoff = 1000 * time.Millisecond

// NewAdapter wraps venue with the adapter policy layer.
func NewAdapter(venue Venue, cfg AdapterConfig) *Adapter {
	settings := gobreaker.Settings{
		Name:     string(venue.ID()),
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.25
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("venue-breaker-state-change",
				zap.String("venue", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			BreakerStateChangesTotal.WithLabelValues(name, to.String()).Inc()
		},
	}

	return &Adapter{
		venue:    venue,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		breaker:  gobreaker.NewCircuitBreaker(settings),
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
	}
}

// ID returns the wrapped venue's identifier.
func (a *Adapter) ID() types.VenueID {
	return a.venue.ID()
}

// LoadMarkets fetches the venue's market listing. Returns nil on any
// failure; the markets cache records the miss and never retries within
// the process lifetime.
func (a *Adapter) LoadMarkets(ctx context.Context) map[string]types.MarketMeta {
	result := a.call(ctx, "load_markets", func(ctx context.Context) (interface{}, error) {
		return a.venue.LoadMarkets(ctx)
	})
	if result == nil {
		return nil
	}
	return result.(map[string]types.MarketMeta)
}

// FetchTicker fetches a normalized ticker, or nil on failure.
func (a *Adapter) FetchTicker(ctx context.Context, symbol string) *types.Ticker {
	key := fmt.Sprintf("ticker:%s:%s", a.venue.ID(), symbol)
	if cached := a.cached(key); cached != nil {
		return cached.(*types.Ticker)
	}

	result := a.call(ctx, "fetch_ticker", func(ctx context.Context) (interface{}, error) {
		return a.venue.FetchTicker(ctx, symbol)
	})
	if result == nil {
		return nil
	}

	ticker := result.(*types.Ticker)
	a.store(key, ticker)
	return ticker
}

// FetchOrderBook fetches up to limit levels per side, or nil on failure.
func (a *Adapter) FetchOrderBook(ctx context.Context, symbol string, limit int) *types.OrderBook {
	key := fmt.Sprintf("book:%s:%s:%d", a.venue.ID(), symbol, limit)
	if cached := a.cached(key); cached != nil {
		return cached.(*types.OrderBook)
	}

	result := a.call(ctx, "fetch_order_book", func(ctx context.Context) (interface{}, error) {
		return a.venue.FetchOrderBook(ctx, symbol, limit)
	})
	if result == nil {
		return nil
	}

	book := result.(*types.OrderBook)
	a.store(key, book)
	return book
}

// call runs fn through the rate limiter and circuit breaker, retrying once
// after a fixed backoff when the venue signals throttling. Any terminal
// failure is logged and collapses to nil.
func (a *Adapter) call(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) interface{} {
	start := time.Now()
	defer func() {
		RequestDurationSeconds.WithLabelValues(string(a.venue.ID()), op).Observe(time.Since(start).Seconds())
	}()

	result, err := a.attempt(ctx, fn)
	if err == nil {
		return result
	}

	if errors.Is(err, ErrRateLimited) {
		RateLimitedTotal.WithLabelValues(string(a.venue.ID())).Inc()
		select {
		case <-ctx.Done():
			a.logFailure(op, ctx.Err())
			return nil
		case <-time.After(rateLimitBackoff):
		}

		result, err = a.attempt(ctx, fn)
		if err == nil {
			return result
		}
	}

	a.logFailure(op, err)
	return nil
}

func (a *Adapter) attempt(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	err := a.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	return a.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
}

func (a *Adapter) logFailure(op string, err error) {
	RequestFailuresTotal.WithLabelValues(string(a.venue.ID()), op).Inc()
	a.logger.Warn("venue-request-failed",
		zap.String("venue", string(a.venue.ID())),
		zap.String("op", op),
		zap.Error(err))
}

func (a *Adapter) cached(key string) interface{} {
	if a.cache == nil {
		return nil
	}
	value, found := a.cache.Get(key)
	if !found {
		return nil
	}
	return value
}

func (a *Adapter) store(key string, value interface{}) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return
	}
	a.cache.Set(key, value, a.cacheTTL)
}
