package driving

import "github.com/custodia-labs/placemap/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set validates and stores a single setting given as text.
	Set(key, value string) error

	// List returns every recognised setting with its effective value.
	List() ([]Setting, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}

// Setting is one configuration key and its effective value.
type Setting struct {
	Key   string
	Value string

	// IsDefault is true when the key is not set in the config file.
	IsDefault bool
}
