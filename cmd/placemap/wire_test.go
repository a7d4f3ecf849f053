package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

func TestOpenCache_JSONDefaultPath(t *testing.T) {
	dir := t.TempDir()

	cache, err := openCache(dir, domain.CacheSettings{Backend: domain.CacheBackendJSON})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "coords_cache.json"), cache.location)
	assert.Nil(t, cache.attempts)
	assert.NoError(t, cache.close())
}

func TestOpenCache_RelativePath(t *testing.T) {
	dir := t.TempDir()

	cache, err := openCache(dir, domain.CacheSettings{Backend: domain.CacheBackendJSON, Path: "nested/cache.json"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "cache.json"), cache.location)
}

func TestOpenCache_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coords.db")

	cache, err := openCache(dir, domain.CacheSettings{Backend: domain.CacheBackendSQLite, Path: path})
	require.NoError(t, err)
	defer cache.close()

	assert.Equal(t, path, cache.location)
	require.NotNil(t, cache.attempts)

	ctx := context.Background()
	want := domain.CoordinateCache{"https://maps.google.com/?cid=1": domain.NewCoordinate(-3, 40)}
	require.NoError(t, cache.store.Save(ctx, want))
	got, err := cache.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenCache_Memory(t *testing.T) {
	cache, err := openCache(t.TempDir(), domain.CacheSettings{Backend: domain.CacheBackendMemory})

	require.NoError(t, err)
	assert.Equal(t, ":memory:", cache.location)
}

func TestOpenCache_Unknown(t *testing.T) {
	_, err := openCache(t.TempDir(), domain.CacheSettings{Backend: "redis"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()

	svc, err := bootstrap(dir, func(s *domain.AppSettings) {
		s.Cache.Backend = domain.CacheBackendMemory
	})

	require.NoError(t, err)
	require.NotNil(t, svc.Settings)
	require.NotNil(t, svc.Pipeline)
	require.NotNil(t, svc.Cache)

	stats, err := svc.Cache.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CacheBackendMemory, stats.Backend)
	assert.NoError(t, svc.Close())
}

func TestBootstrap_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()

	svc, err := bootstrap(dir, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Settings.Set("cache.backend", "sqlite"))
	require.NoError(t, svc.Close())

	svc, err = bootstrap(dir, nil)
	require.NoError(t, err)
	defer svc.Close()

	stats, err := svc.Cache.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CacheBackendSQLite, stats.Backend)
	assert.Equal(t, filepath.Join(dir, "coords_cache.db"), stats.Location)
}
