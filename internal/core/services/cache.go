package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService exposes the coordinate cache for inspection.
type CacheService struct {
	cacheStore driven.CacheStore
	attempts   driven.AttemptLog
	backend    domain.CacheBackend
	location   string
}

// NewCacheService creates a cache service.
// The attempts log is optional - if nil, Failures is unsupported.
func NewCacheService(
	cacheStore driven.CacheStore,
	attempts driven.AttemptLog,
	backend domain.CacheBackend,
	location string,
) *CacheService {
	return &CacheService{
		cacheStore: cacheStore,
		attempts:   attempts,
		backend:    backend,
		location:   location,
	}
}

// List returns every cache entry sorted by URL.
func (s *CacheService) List(ctx context.Context) ([]driving.CacheEntry, error) {
	cache, err := s.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	entries := make([]driving.CacheEntry, 0, len(cache))
	for _, url := range cache.Keys() {
		entries = append(entries, driving.CacheEntry{URL: url, Coordinate: cache[url]})
	}
	return entries, nil
}

// Stats summarises the cache.
func (s *CacheService) Stats(ctx context.Context) (*driving.CacheStats, error) {
	cache, err := s.cacheStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	stats := &driving.CacheStats{
		Backend:  s.backend,
		Location: s.location,
		Entries:  len(cache),
	}

	west, south := math.Inf(1), math.Inf(1)
	east, north := math.Inf(-1), math.Inf(-1)
	valid := 0
	for _, coord := range cache {
		if !coord.IsResolved() {
			stats.Invalid++
			continue
		}
		valid++
		west = math.Min(west, coord.East)
		east = math.Max(east, coord.East)
		south = math.Min(south, coord.North)
		north = math.Max(north, coord.North)
	}
	if valid > 0 {
		stats.Bounds = &[4]float64{west, south, east, north}
	}
	return stats, nil
}

// Failures returns recent failed resolution attempts.
func (s *CacheService) Failures(ctx context.Context, limit int) ([]domain.ResolutionAttempt, error) {
	if s.attempts == nil {
		return nil, fmt.Errorf("%w: the %s backend keeps no attempt history", domain.ErrUnsupportedType, s.backend)
	}
	failures, err := s.attempts.ListFailures(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	return failures, nil
}
