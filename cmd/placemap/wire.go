package main

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/placemap/internal/adapters/driven/browser/chrome"
	"github.com/custodia-labs/placemap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/placemap/internal/adapters/driven/dataset/geojson"
	"github.com/custodia-labs/placemap/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/placemap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/placemap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/placemap/internal/adapters/driving/cli"
	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/core/services"
	"github.com/custodia-labs/placemap/internal/logger"
)

// cacheBackend is an opened cache store with its optional attempt log.
type cacheBackend struct {
	store    driven.CacheStore
	attempts driven.AttemptLog
	location string
	close    func() error
}

// bootstrap wires every adapter to the core services.
func bootstrap(configDir string, override func(*domain.AppSettings)) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if override != nil {
		override(settings)
	}

	cache, err := openCache(configDir, settings.Cache)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache: %s (%s)", cache.location, settings.Cache.Backend)

	launcher := chrome.NewLauncher(chrome.OptionsFromSettings(settings.Browser))
	resolver := services.NewResolver(cache.store, launcher, cache.attempts, settings.Browser)

	pipeline := services.NewPipelineService(
		geojson.NewReader(),
		geojson.NewWriter(),
		resolver,
		cache.store,
		settings.Isolation.Metric,
	)
	cacheService := services.NewCacheService(cache.store, cache.attempts, settings.Cache.Backend, cache.location)

	return &cli.Services{
		Settings: settingsService,
		Pipeline: pipeline,
		Cache:    cacheService,
		Close:    cache.close,
	}, nil
}

// openCache opens the configured cache backend. A relative or empty path
// resolves against configDir.
func openCache(configDir string, cfg domain.CacheSettings) (*cacheBackend, error) {
	path := cfg.Path
	if path == "" {
		path = cfg.Backend.DefaultFileName()
	}
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(configDir, path)
	}

	switch cfg.Backend {
	case domain.CacheBackendJSON:
		return &cacheBackend{
			store:    jsonfile.NewCacheStore(path),
			location: path,
			close:    func() error { return nil },
		}, nil

	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return &cacheBackend{
			store:    store.CacheStore(),
			attempts: store.AttemptLog(),
			location: store.Path(),
			close:    store.Close,
		}, nil

	case domain.CacheBackendMemory:
		return &cacheBackend{
			store:    memory.NewCacheStore(),
			location: ":memory:",
			close:    func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("%w: cache backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
