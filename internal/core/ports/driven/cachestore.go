package driven

import (
	"context"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// CacheStore persists the coordinate cache as a whole.
type CacheStore interface {
	// Load returns the persisted mapping.
	// An absent store yields an empty mapping, not an error.
	Load(ctx context.Context) (domain.CoordinateCache, error)

	// Save durably replaces the persisted mapping with cache.
	// Implementations must never leave a partially written store behind.
	Save(ctx context.Context, cache domain.CoordinateCache) error
}

// AttemptLog records resolution attempts for later inspection.
// Optional: services treat a nil AttemptLog as disabled.
type AttemptLog interface {
	// Record appends one attempt.
	Record(ctx context.Context, attempt domain.ResolutionAttempt) error

	// ListFailures returns the most recent failed attempts, newest first.
	// A limit of zero or less returns all of them.
	ListFailures(ctx context.Context, limit int) ([]domain.ResolutionAttempt, error)
}
