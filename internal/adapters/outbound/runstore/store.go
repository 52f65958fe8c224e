// Package runstore keeps completed validation results in memory so their
// artifacts can be downloaded after the run.
package runstore

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// Store implements domain.RunStore on a ristretto cache. Entries expire
// after ttl; a zero ttl keeps them until evicted.
type Store struct {
	cache  *ristretto.Cache[string, *domain.ValidationResult]
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a run store.
func New(ttl time.Duration, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *domain.ValidationResult]{
		// roughly ten counters per expected entry
		NumCounters:        1e5,
		MaxCost:            10000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating run store: %w", err)
	}
	return &Store{cache: cache, ttl: ttl, logger: logger}, nil
}

// Put stores a result under its RunID. Each result has a cost of 1.
func (s *Store) Put(r *domain.ValidationResult) {
	if r == nil || r.RunID == "" {
		return
	}
	if !s.cache.SetWithTTL(r.RunID, r, 1, s.ttl) {
		s.logger.Warn("run store dropped result", zap.String("run_id", r.RunID))
	}
	s.cache.Wait()
}

// Get returns the result stored for runID.
func (s *Store) Get(runID string) (*domain.ValidationResult, bool) {
	return s.cache.Get(runID)
}

// Close stops the cache's background goroutines.
func (s *Store) Close() {
	s.cache.Close()
}
