package driving

import (
	"context"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// CoordinateResolver resolves reference URLs that carry no coordinates.
type CoordinateResolver interface {
	// ResolveAll resolves every uncached URL in urls and returns the full
	// cache, including entries that existed before the call.
	// It never fails: per-URL problems are logged and counted in the stats.
	ResolveAll(ctx context.Context, urls []string) (domain.CoordinateCache, ResolveStats)
}

// ResolveStats summarises one ResolveAll batch.
type ResolveStats struct {
	// RunID identifies the batch in the attempt log.
	RunID string

	// Requested is the number of distinct URLs passed in.
	Requested int

	// CacheHits is the number of URLs already cached.
	CacheHits int

	// Resolved is the number of URLs fetched successfully.
	Resolved int

	// Failed is the number of URLs that could not be resolved.
	Failed int

	// SaveErrors is the number of cache saves that failed.
	SaveErrors int

	// Cancelled is true if the context ended before every URL was tried.
	Cancelled bool

	// BrowserLaunched is true if a browser session was started.
	BrowserLaunched bool

	// ResolvedURLs lists the URLs fetched during this batch, in order.
	ResolvedURLs []string
}

// Fetched returns the URLs resolved during the batch as a set.
func (s ResolveStats) Fetched() map[string]bool {
	set := make(map[string]bool, len(s.ResolvedURLs))
	for _, u := range s.ResolvedURLs {
		set[u] = true
	}
	return set
}
