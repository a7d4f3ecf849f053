package driving

import (
	"context"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// CacheService exposes the coordinate cache for inspection.
type CacheService interface {
	// List returns every cache entry sorted by URL.
	List(ctx context.Context) ([]CacheEntry, error)

	// Stats summarises the cache.
	Stats(ctx context.Context) (*CacheStats, error)

	// Failures returns recent failed resolution attempts.
	// Returns domain.ErrUnsupportedType when the backend keeps no attempt log.
	Failures(ctx context.Context, limit int) ([]domain.ResolutionAttempt, error)
}

// CacheEntry is one URL to coordinate mapping.
type CacheEntry struct {
	URL        string
	Coordinate domain.Coordinate
}

// CacheStats summarises the cache contents.
type CacheStats struct {
	// Backend is the configured cache backend.
	Backend domain.CacheBackend

	// Location is the cache file path, empty for the memory backend.
	Location string

	// Entries is the number of cached URLs.
	Entries int

	// Invalid is the number of entries that are out of range or the sentinel.
	Invalid int

	// Bounds is the bounding box of valid entries as (west, south, east, north).
	// Nil when there are no valid entries.
	Bounds *[4]float64
}
