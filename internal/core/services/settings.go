package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyCacheBackend          = "cache.backend"
	KeyCachePath             = "cache.path"
	KeyBrowserHeadless       = "browser.headless"
	KeyBrowserExecPath       = "browser.exec_path"
	KeyBrowserUserAgent      = "browser.user_agent"
	KeyBrowserSettleMs       = "browser.settle_ms"
	KeyBrowserConsentTimeout = "browser.consent_timeout_ms"
	KeyBrowserConsentWait    = "browser.consent_wait_ms"
	KeyBrowserRedirectMs     = "browser.redirect_ms"
	KeyBrowserRate           = "browser.rate_per_second"
	KeyBrowserConsentLabels  = "browser.consent_labels"
	KeyIsolationMetric       = "isolation.metric"
	KeyOutputPath            = "output.path"
)

// settingKeys lists every key in display order.
var settingKeys = []string{
	KeyCacheBackend,
	KeyCachePath,
	KeyBrowserHeadless,
	KeyBrowserExecPath,
	KeyBrowserUserAgent,
	KeyBrowserSettleMs,
	KeyBrowserConsentTimeout,
	KeyBrowserConsentWait,
	KeyBrowserRedirectMs,
	KeyBrowserRate,
	KeyBrowserConsentLabels,
	KeyIsolationMetric,
	KeyOutputPath,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Cache: domain.CacheSettings{
			Backend: s.getBackend(defaults.Cache.Backend),
			Path:    s.configStore.GetString(KeyCachePath),
		},
		Browser: domain.BrowserSettings{
			Headless:       s.getBool(KeyBrowserHeadless, defaults.Browser.Headless),
			ExecPath:       s.configStore.GetString(KeyBrowserExecPath),
			UserAgent:      s.configStore.GetString(KeyBrowserUserAgent),
			SettleDelay:    s.getMillis(KeyBrowserSettleMs, defaults.Browser.SettleDelay),
			ConsentTimeout: s.getMillis(KeyBrowserConsentTimeout, defaults.Browser.ConsentTimeout),
			ConsentWait:    s.getMillis(KeyBrowserConsentWait, defaults.Browser.ConsentWait),
			RedirectDelay:  s.getMillis(KeyBrowserRedirectMs, defaults.Browser.RedirectDelay),
			RatePerSecond:  s.getFloat(KeyBrowserRate, defaults.Browser.RatePerSecond),
			ConsentLabels:  s.getStringSlice(KeyBrowserConsentLabels, defaults.Browser.ConsentLabels),
		},
		Isolation: domain.IsolationSettings{
			Metric: s.getMetric(defaults.Isolation.Metric),
		},
		Output: domain.OutputSettings{
			Path: s.configStore.GetString(KeyOutputPath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyCacheBackend, settings.Cache.Backend.String()},
		{KeyCachePath, settings.Cache.Path},
		{KeyBrowserHeadless, settings.Browser.Headless},
		{KeyBrowserExecPath, settings.Browser.ExecPath},
		{KeyBrowserUserAgent, settings.Browser.UserAgent},
		{KeyBrowserSettleMs, settings.Browser.SettleDelay.Milliseconds()},
		{KeyBrowserConsentTimeout, settings.Browser.ConsentTimeout.Milliseconds()},
		{KeyBrowserConsentWait, settings.Browser.ConsentWait.Milliseconds()},
		{KeyBrowserRedirectMs, settings.Browser.RedirectDelay.Milliseconds()},
		{KeyBrowserRate, settings.Browser.RatePerSecond},
		{KeyBrowserConsentLabels, settings.Browser.ConsentLabels},
		{KeyIsolationMetric, settings.Isolation.Metric.String()},
		{KeyOutputPath, settings.Output.Path},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates it and stores it.
//
//nolint:gocyclo // One case per setting key
func (s *SettingsService) Set(key, value string) error {
	var parsed any

	switch key {
	case KeyCacheBackend:
		backend := domain.CacheBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: cache backend %q (want json, sqlite or memory)", domain.ErrInvalidInput, value)
		}
		parsed = backend.String()

	case KeyIsolationMetric:
		metric := domain.IsolationMetric(value)
		if !metric.IsValid() {
			return fmt.Errorf("%w: isolation metric %q (want planar or great_circle)", domain.ErrInvalidInput, value)
		}
		parsed = metric.String()

	case KeyCachePath, KeyBrowserExecPath, KeyBrowserUserAgent, KeyOutputPath:
		parsed = value

	case KeyBrowserHeadless:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b

	case KeyBrowserSettleMs, KeyBrowserConsentTimeout, KeyBrowserConsentWait, KeyBrowserRedirectMs:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number of milliseconds", domain.ErrInvalidInput, key)
		}
		parsed = ms

	case KeyBrowserRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = rate

	case KeyBrowserConsentLabels:
		labels := splitLabels(value)
		if len(labels) == 0 {
			return fmt.Errorf("%w: %s needs at least one label", domain.ErrInvalidInput, key)
		}
		parsed = labels

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// List returns every setting with its effective value.
func (s *SettingsService) List() ([]driving.Setting, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	out := make([]driving.Setting, 0, len(settingKeys))
	for _, key := range settingKeys {
		_, stored := s.configStore.Get(key)
		out = append(out, driving.Setting{
			Key:       key,
			Value:     formatSetting(settings, key),
			IsDefault: !stored,
		})
	}
	return out, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SettingKeys returns the recognised keys in display order.
func SettingKeys() []string {
	return append([]string(nil), settingKeys...)
}

func formatSetting(s *domain.AppSettings, key string) string {
	switch key {
	case KeyCacheBackend:
		return s.Cache.Backend.String()
	case KeyCachePath:
		return s.Cache.Path
	case KeyBrowserHeadless:
		return strconv.FormatBool(s.Browser.Headless)
	case KeyBrowserExecPath:
		return s.Browser.ExecPath
	case KeyBrowserUserAgent:
		return s.Browser.UserAgent
	case KeyBrowserSettleMs:
		return strconv.FormatInt(s.Browser.SettleDelay.Milliseconds(), 10)
	case KeyBrowserConsentTimeout:
		return strconv.FormatInt(s.Browser.ConsentTimeout.Milliseconds(), 10)
	case KeyBrowserConsentWait:
		return strconv.FormatInt(s.Browser.ConsentWait.Milliseconds(), 10)
	case KeyBrowserRedirectMs:
		return strconv.FormatInt(s.Browser.RedirectDelay.Milliseconds(), 10)
	case KeyBrowserRate:
		return strconv.FormatFloat(s.Browser.RatePerSecond, 'f', -1, 64)
	case KeyBrowserConsentLabels:
		return strings.Join(s.Browser.ConsentLabels, ", ")
	case KeyIsolationMetric:
		return s.Isolation.Metric.String()
	case KeyOutputPath:
		return s.Output.Path
	default:
		return ""
	}
}

func splitLabels(value string) []string {
	var labels []string
	for _, part := range strings.Split(value, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	ms := s.configStore.GetInt(key)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	v := s.configStore.GetFloat(key)
	if v < 0 {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	backend := domain.CacheBackend(s.configStore.GetString(KeyCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getMetric(defaultVal domain.IsolationMetric) domain.IsolationMetric {
	metric := domain.IsolationMetric(s.configStore.GetString(KeyIsolationMetric))
	if !metric.IsValid() {
		return defaultVal
	}
	return metric
}
