package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
	"github.com/custodia-labs/placemap/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driving.CoordinateResolver = (*Resolver)(nil)

// Resolver follows reference URLs through a browser and reads the
// coordinates from the final address.
type Resolver struct {
	cacheStore driven.CacheStore
	launcher   driven.BrowserLauncher
	attempts   driven.AttemptLog
	browser    domain.BrowserSettings

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewResolver creates a resolver.
// The attempts log is optional - if nil, attempts are only logged.
func NewResolver(
	cacheStore driven.CacheStore,
	launcher driven.BrowserLauncher,
	attempts driven.AttemptLog,
	browser domain.BrowserSettings,
) *Resolver {
	return &Resolver{
		cacheStore: cacheStore,
		launcher:   launcher,
		attempts:   attempts,
		browser:    browser,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// ResolveOne resolves a single URL with an open session.
// Every failure is logged and reported as (domain.Unresolved, false).
func (r *Resolver) ResolveOne(ctx context.Context, session driven.BrowserSession, url string) (domain.Coordinate, bool) {
	coord, _, err := r.resolve(ctx, session, url)
	if err != nil {
		logger.Warn("Failed to resolve: %s (%v)", url, err)
		return domain.Unresolved, false
	}
	return coord, true
}

// ResolveAll resolves every URL not already cached.
//
// The cache is loaded once. Each success is added and the whole cache saved
// straight away, so an interrupted batch keeps what it found. The browser is
// launched on the first miss and closed when the batch ends, however it ends.
//
//nolint:gocognit // Batch loop with per-URL bookkeeping
func (r *Resolver) ResolveAll(ctx context.Context, urls []string) (domain.CoordinateCache, driving.ResolveStats) {
	stats := driving.ResolveStats{RunID: uuid.NewString()}

	cache := r.loadCache(ctx)
	misses := r.partition(cache, urls, &stats)
	if len(misses) == 0 {
		return cache, stats
	}

	logger.Section("Resolve")
	logger.Debug("run %s: %d to resolve, %d cached", stats.RunID, len(misses), stats.CacheHits)

	var (
		session   driven.BrowserSession
		launchErr error
		unsaved   bool
	)
	defer func() {
		if session == nil {
			return
		}
		if err := session.Close(); err != nil {
			logger.Warn("close browser: %v", err)
		}
	}()

	// Persisting must survive cancellation of the batch.
	persistCtx := context.WithoutCancel(ctx)

	for _, url := range misses {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}

		if session == nil && launchErr == nil {
			session, launchErr = r.launch(ctx)
			if launchErr != nil && ctx.Err() != nil {
				stats.Cancelled = true
				break
			}
			if launchErr != nil {
				logger.Error("launch browser: %v", launchErr)
			} else {
				stats.BrowserLaunched = true
			}
		}
		if launchErr != nil {
			stats.Failed++
			logger.Warn("Failed to resolve: %s (%v)", url, launchErr)
			r.record(persistCtx, stats.RunID, url, "", domain.Unresolved, launchErr)
			continue
		}

		logger.Info("Resolving: %s", url)
		coord, finalURL, err := r.resolve(ctx, session, url)
		if err != nil {
			if ctx.Err() != nil {
				stats.Cancelled = true
				break
			}
			stats.Failed++
			logger.Warn("Failed to resolve: %s (%v)", url, err)
			r.record(persistCtx, stats.RunID, url, finalURL, domain.Unresolved, err)
			continue
		}

		cache.Add(url, coord)
		stats.Resolved++
		stats.ResolvedURLs = append(stats.ResolvedURLs, url)
		logger.Info("Resolved: %s -> %s", url, coord)
		r.record(persistCtx, stats.RunID, url, finalURL, coord, nil)

		if err := r.cacheStore.Save(persistCtx, cache); err != nil {
			stats.SaveErrors++
			unsaved = true
			logger.Error("save cache: %v", err)
		} else {
			unsaved = false
		}
	}

	if unsaved {
		if err := r.cacheStore.Save(persistCtx, cache); err != nil {
			stats.SaveErrors++
			logger.Error("save cache: %v", err)
		}
	}

	if stats.Cancelled {
		logger.Warn("Resolution cancelled: %d resolved, %d failed", stats.Resolved, stats.Failed)
	}
	return cache, stats
}

// loadCache reads the cache, falling back to an empty one on failure.
func (r *Resolver) loadCache(ctx context.Context) domain.CoordinateCache {
	cache, err := r.cacheStore.Load(ctx)
	if err != nil {
		logger.Error("load cache: %v (continuing with empty cache)", err)
		return domain.NewCoordinateCache()
	}
	if cache == nil {
		return domain.NewCoordinateCache()
	}
	return cache
}

// partition counts distinct URLs and cache hits, returning the misses in
// first-seen order.
func (r *Resolver) partition(cache domain.CoordinateCache, urls []string, stats *driving.ResolveStats) []string {
	seen := make(map[string]bool, len(urls))
	var misses []string
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		stats.Requested++

		if coord, ok := cache.Get(url); ok {
			stats.CacheHits++
			logger.Info("Cached: %s -> %s", url, coord)
			continue
		}
		misses = append(misses, url)
	}
	return misses
}

func (r *Resolver) launch(ctx context.Context) (driven.BrowserSession, error) {
	if r.launcher == nil {
		return nil, fmt.Errorf("%w: no browser configured", domain.ErrBrowserUnavailable)
	}
	session, err := r.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBrowserUnavailable, err)
	}
	return session, nil
}

// resolve navigates to url, clears a consent screen if one appears and
// parses the address the browser ends up on.
func (r *Resolver) resolve(ctx context.Context, session driven.BrowserSession, url string) (domain.Coordinate, string, error) {
	if err := session.Navigate(ctx, url); err != nil {
		return domain.Unresolved, "", err
	}
	if err := r.sleep(ctx, r.browser.SettleDelay); err != nil {
		return domain.Unresolved, "", err
	}

	clicked, err := session.ClickButtonContaining(ctx, r.browser.ConsentLabels, r.browser.ConsentTimeout)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return domain.Unresolved, "", ctx.Err()
		}
		logger.Warn("consent check failed: %v", err)
	case clicked:
		logger.Info("Clicked consent button")
		if err := r.sleep(ctx, r.browser.ConsentWait); err != nil {
			return domain.Unresolved, "", err
		}
	default:
		logger.Info("No consent screen detected.")
	}

	if err := r.sleep(ctx, r.browser.RedirectDelay); err != nil {
		return domain.Unresolved, "", err
	}

	finalURL, err := session.CurrentURL(ctx)
	if err != nil {
		return domain.Unresolved, "", err
	}
	logger.Debug("final address: %s", finalURL)

	coord, err := ParseAtCoordinates(finalURL)
	if err != nil {
		return domain.Unresolved, finalURL, err
	}
	return coord, finalURL, nil
}

// record writes an attempt to the optional log.
func (r *Resolver) record(ctx context.Context, runID, url, finalURL string, coord domain.Coordinate, err error) {
	if r.attempts == nil {
		return
	}

	attempt := domain.ResolutionAttempt{
		RunID:    runID,
		URL:      url,
		FinalURL: finalURL,
		Outcome:  domain.AttemptResolved,
		At:       r.now(),
	}
	if err != nil {
		attempt.Outcome = domain.AttemptFailed
		attempt.Error = err.Error()
	} else {
		attempt.Coordinate = coord
	}

	if err := r.attempts.Record(ctx, attempt); err != nil {
		logger.Warn("record attempt for %s: %v", url, err)
	}
}

// ParseAtCoordinates reads the "/@lat,lon" segment of a map address and
// returns it as (lon, lat).
func ParseAtCoordinates(address string) (domain.Coordinate, error) {
	idx := strings.Index(address, "/@")
	if idx < 0 {
		return domain.Unresolved, fmt.Errorf("%w: %s", domain.ErrNoCoordinatesInURL, address)
	}

	parts := strings.SplitN(address[idx+2:], ",", 3)
	if len(parts) < 2 {
		return domain.Unresolved, fmt.Errorf("%w: %s", domain.ErrNoCoordinatesInURL, address)
	}

	lon := parts[1]
	if cut := strings.IndexAny(lon, "/?#"); cut >= 0 {
		lon = lon[:cut]
	}

	north, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Unresolved, fmt.Errorf("%w: latitude %q", domain.ErrNoCoordinatesInURL, parts[0])
	}
	east, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return domain.Unresolved, fmt.Errorf("%w: longitude %q", domain.ErrNoCoordinatesInURL, lon)
	}

	coord := domain.FromNorthEast(north, east)
	if !coord.IsResolved() {
		return domain.Unresolved, fmt.Errorf("%w: %s out of range", domain.ErrNoCoordinatesInURL, coord)
	}
	return coord, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
