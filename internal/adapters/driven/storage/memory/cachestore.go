package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore.
// Backs the "memory" cache backend and service tests.
type CacheStore struct {
	mu    sync.RWMutex
	cache domain.CoordinateCache
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		cache: domain.NewCoordinateCache(),
	}
}

// Load returns a copy of the stored mapping.
func (s *CacheStore) Load(_ context.Context) (domain.CoordinateCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Clone(), nil
}

// Save replaces the stored mapping with a copy of cache.
func (s *CacheStore) Save(_ context.Context, cache domain.CoordinateCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = cache.Clone()
	return nil
}
