// Package jsonfile stores the coordinate cache as an indented JSON object
// mapping each reference URL to its [east, north] pair. Keys are written in
// sorted order so the file diffs cleanly between runs.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is a JSON file implementation of driven.CacheStore.
type CacheStore struct {
	path string
}

// NewCacheStore creates a cache store backed by the file at path.
// The file is created on the first Save.
func NewCacheStore(path string) *CacheStore {
	return &CacheStore{path: path}
}

// Path returns the cache file path.
func (s *CacheStore) Path() string {
	return s.path
}

// Load reads the cache file. A missing or empty file yields an empty cache.
func (s *CacheStore) Load(ctx context.Context) (domain.CoordinateCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewCoordinateCache(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCacheUnavailable, s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewCoordinateCache(), nil
	}

	cache := domain.NewCoordinateCache()
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrCacheUnavailable, s.path, err)
	}
	return cache, nil
}

// Save rewrites the cache file atomically: the mapping is written to a
// temporary file in the same directory which then replaces the original.
func (s *CacheStore) Save(ctx context.Context, cache domain.CoordinateCache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if cache == nil {
		cache = domain.NewCoordinateCache()
	}

	// encoding/json sorts map keys.
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: create dir: %w", domain.ErrCacheUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrCacheUnavailable, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op once the rename has succeeded.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %w", domain.ErrCacheUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp file: %w", domain.ErrCacheUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", domain.ErrCacheUnavailable, err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("%w: chmod temp file: %w", domain.ErrCacheUnavailable, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", domain.ErrCacheUnavailable, s.path, err)
	}
	return nil
}
