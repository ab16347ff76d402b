package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/spotarb/spot-arb/internal/engine"
	"github.com/spotarb/spot-arb/internal/fetcher"
	"github.com/spotarb/spot-arb/internal/store"
	"github.com/spotarb/spot-arb/internal/universe"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// Broadcaster pushes a freshly published opportunity set to live
// subscribers.
type Broadcaster interface {
	Publish(set *types.OpportunitiesSet)
}

// Sink persists opportunity batches. Persistence is best effort: a sink
// failure is logged and never fails the tick.
type Sink interface {
	StoreOpportunities(ctx context.Context, opportunities []types.Opportunity) error
}

// Scanner drives the scan loop: it walks the symbol universe in
// round-robin batches, fans out pair fetches, runs the opportunity
// engine, and publishes the result.
type Scanner struct {
	cfg       Config
	universe  *universe.Service
	fetcher   *fetcher.Fetcher
	engine    *engine.Engine
	store     *store.Store
	broadcast Broadcaster
	sink      Sink
	logger    *zap.Logger

	symbols []string
	cursor  int
}

// Config holds scan loop settings.
type Config struct {
	Interval  time.Duration
	BatchSize int
	Venues    []types.VenueID
	Logger    *zap.Logger
}

// New creates a scanner. broadcast and sink may be nil.
func New(cfg Config, uni *universe.Service, f *fetcher.Fetcher, eng *engine.Engine, st *store.Store, broadcast Broadcaster, sink Sink) *Scanner {
	return &Scanner{
		cfg:       cfg,
		universe:  uni,
		fetcher:   f,
		engine:    eng,
		store:     st,
		broadcast: broadcast,
		sink:      sink,
		logger:    cfg.Logger,
	}
}

// Run executes scan ticks until ctx is cancelled. The first tick starts
// immediately; each following tick starts one interval after the
// previous tick COMPLETED, so slow ticks stretch the cycle instead of
// piling up.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("scanner-started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("batch-size", s.cfg.BatchSize),
		zap.Int("venues", len(s.cfg.Venues)))

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("scanner-stopped")
			return ctx.Err()
		case <-time.After(s.cfg.Interval):
		}
	}
}

// RunOnce performs a single tick and returns the opportunities it
// produced. Used by the one-shot CLI path.
func (s *Scanner) RunOnce(ctx context.Context) []types.Opportunity {
	return s.tick(ctx)
}

func (s *Scanner) tick(ctx context.Context) []types.Opportunity {
	start := time.Now()

	batch := s.nextBatch(ctx)
	if len(batch) == 0 {
		s.logger.Warn("scan-batch-empty")
		return nil
	}

	all := s.fetchBatch(ctx, batch)
	if ctx.Err() != nil {
		return nil
	}

	opportunities, counters := s.engine.Compute(all)

	set := &types.OpportunitiesSet{
		Timestamp: time.Now(),
		Items:     opportunities,
	}
	snapshot := &types.Snapshot{
		Timestamp: set.Timestamp,
		Data:      all,
	}

	s.store.Publish(snapshot, set)

	if s.broadcast != nil {
		s.broadcast.Publish(set)
	}

	if s.sink != nil && len(opportunities) > 0 {
		if err := s.sink.StoreOpportunities(ctx, opportunities); err != nil {
			s.logger.Warn("opportunity-persist-failed", zap.Error(err))
		}
	}

	elapsed := time.Since(start)
	TickDurationSeconds.Observe(elapsed.Seconds())
	TicksTotal.Inc()

	s.logger.Info("scan-tick-complete",
		zap.Int("symbols", len(batch)),
		zap.Int("pairs-checked", counters.PairsChecked),
		zap.Int("opportunities", len(opportunities)),
		zap.Duration("elapsed", elapsed))

	return opportunities
}

// nextBatch returns the next batch of symbols, advancing the round-robin
// cursor with wraparound. The universe is computed lazily on the first
// tick and reused for the process lifetime, matching the write-once
// markets cache underneath it.
func (s *Scanner) nextBatch(ctx context.Context) []string {
	if s.symbols == nil {
		s.symbols = s.universe.CommonUSDTSymbols(ctx)
	}
	if len(s.symbols) == 0 {
		return nil
	}

	size := s.cfg.BatchSize
	if size <= 0 || size > len(s.symbols) {
		size = len(s.symbols)
	}

	batch := make([]string, 0, size)
	for i := 0; i < size; i++ {
		batch = append(batch, s.symbols[(s.cursor+i)%len(s.symbols)])
	}
	s.cursor = (s.cursor + size) % len(s.symbols)

	return batch
}

// fetchBatch fans out one fetch per (symbol, venue) and assembles the
// successful snapshots. Failed fetches are already classified and
// counted by the fetcher; symbols with no surviving venue are dropped.
func (s *Scanner) fetchBatch(ctx context.Context, batch []string) types.AllData {
	type result struct {
		symbol   string
		venue    types.VenueID
		snapshot *types.PairSnapshot
	}

	results := make(chan result, len(batch)*len(s.cfg.Venues))

	var wg sync.WaitGroup
	for _, symbol := range batch {
		for _, venue := range s.cfg.Venues {
			wg.Add(1)
			go func(symbol string, venue types.VenueID) {
				defer wg.Done()
				snapshot, _ := s.fetcher.Fetch(ctx, venue, symbol)
				results <- result{symbol: symbol, venue: venue, snapshot: snapshot}
			}(symbol, venue)
		}
	}
	wg.Wait()
	close(results)

	all := make(types.AllData)
	for r := range results {
		if r.snapshot == nil {
			continue
		}
		if all[r.symbol] == nil {
			all[r.symbol] = make(map[types.VenueID]*types.PairSnapshot)
		}
		all[r.symbol][r.venue] = r.snapshot
	}

	return all
}
