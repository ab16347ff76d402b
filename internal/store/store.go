package store

import (
	"sync/atomic"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// published pairs one tick's snapshot with its opportunity set so both
// are swapped in a single pointer store.
type published struct {
	snapshot      *types.Snapshot
	opportunities *types.OpportunitiesSet
}

// Store holds the latest published scan results. Readers always see
// either nothing (before the first publication) or one complete,
// internally consistent tick. Publication never blocks readers.
type Store struct {
	logger  *zap.Logger
	current atomic.Pointer[published]
}

// New creates an empty store.
func New(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// Publish atomically replaces both the market snapshot and the
// opportunity set. Publications with a timestamp older than the current
// one are dropped so a slow tick can never roll results backwards.
func (s *Store) Publish(snapshot *types.Snapshot, set *types.OpportunitiesSet) {
	current := s.current.Load()
	if current != nil && !snapshot.Timestamp.After(current.snapshot.Timestamp) {
		s.logger.Warn("snapshot-publish-stale",
			zap.Time("current", current.snapshot.Timestamp),
			zap.Time("incoming", snapshot.Timestamp))
		PublishStaleTotal.Inc()
		return
	}

	s.current.Store(&published{snapshot: snapshot, opportunities: set})
	PublishTotal.Inc()
}

// Snapshot returns the latest market snapshot, or nil before the first
// publication.
func (s *Store) Snapshot() *types.Snapshot {
	current := s.current.Load()
	if current == nil {
		return nil
	}
	return current.snapshot
}

// Opportunities returns the latest opportunity set, or nil before the
// first publication.
func (s *Store) Opportunities() *types.OpportunitiesSet {
	current := s.current.Load()
	if current == nil {
		return nil
	}
	return current.opportunities
}

// Tick returns the latest snapshot and opportunity set as a consistent
// pair from the same publication.
func (s *Store) Tick() (*types.Snapshot, *types.OpportunitiesSet) {
	current := s.current.Load()
	if current == nil {
		return nil, nil
	}
	return current.snapshot, current.opportunities
}

// Ready reports whether at least one tick has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}
