package domain

import "time"

const unknownDescription = "Unknown"

// CacheBackend selects where resolved coordinates are persisted.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendJSON stores the cache as an indented JSON object.
	CacheBackendJSON CacheBackend = "json"

	// CacheBackendSQLite stores the cache in a SQLite database and also
	// keeps a log of resolution attempts.
	CacheBackendSQLite CacheBackend = "sqlite"

	// CacheBackendMemory keeps the cache for the lifetime of the process only.
	CacheBackendMemory CacheBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendJSON, CacheBackendSQLite, CacheBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// DefaultFileName returns the cache file name used when no path is configured.
func (b CacheBackend) DefaultFileName() string {
	switch b {
	case CacheBackendSQLite:
		return "coords_cache.db"
	case CacheBackendJSON:
		return "coords_cache.json"
	default:
		return ""
	}
}

// Description returns a human-readable description of the backend.
func (b CacheBackend) Description() string {
	switch b {
	case CacheBackendJSON:
		return "JSON file (human-diffable)"
	case CacheBackendSQLite:
		return "SQLite database with attempt history"
	case CacheBackendMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// IsolationMetric selects how nearest-neighbour distance is measured.
type IsolationMetric string

// Available isolation metrics.
const (
	// IsolationPlanar is Euclidean distance in degrees over (east, north).
	IsolationPlanar IsolationMetric = "planar"

	// IsolationGreatCircle is great-circle distance in kilometres.
	IsolationGreatCircle IsolationMetric = "great_circle"
)

// IsValid returns true if the metric is recognised.
func (m IsolationMetric) IsValid() bool {
	return m == IsolationPlanar || m == IsolationGreatCircle
}

// String returns the string representation.
func (m IsolationMetric) String() string {
	return string(m)
}

// Unit returns the unit the metric is expressed in.
func (m IsolationMetric) Unit() string {
	switch m {
	case IsolationPlanar:
		return "deg"
	case IsolationGreatCircle:
		return "km"
	default:
		return ""
	}
}

// DefaultConsentLabels are the localised texts of consent buttons the
// resolver will click.
var DefaultConsentLabels = []string{
	"I agree",
	"Ich stimme zu",
	"Alle akzeptieren",
	"Accept all",
	"Tout accepter",
	"Aceptar todo",
	"Accetta tutto",
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Cache     CacheSettings
	Browser   BrowserSettings
	Isolation IsolationSettings
	Output    OutputSettings
}

// CacheSettings configures the coordinate cache.
type CacheSettings struct {
	Backend CacheBackend
	// Path is the cache file. Empty means the backend's default file in the
	// config directory.
	Path string
}

// BrowserSettings configures the browser used by the resolver.
type BrowserSettings struct {
	Headless  bool
	ExecPath  string
	UserAgent string

	// SettleDelay is the wait after navigation before looking for consent.
	SettleDelay time.Duration
	// ConsentTimeout bounds the wait for the consent button.
	ConsentTimeout time.Duration
	// ConsentWait is the wait after clicking consent for the redirect.
	ConsentWait time.Duration
	// RedirectDelay is the final wait before reading the address.
	RedirectDelay time.Duration
	// RatePerSecond caps navigations per second. Zero disables the cap.
	RatePerSecond float64

	ConsentLabels []string
}

// IsolationSettings configures the nearest-neighbour metric.
type IsolationSettings struct {
	Metric IsolationMetric
}

// OutputSettings configures the enriched dataset written for rendering.
type OutputSettings struct {
	// Path is where the enriched GeoJSON is written. Empty disables output.
	Path string
}

// DefaultAppSettings returns settings matching the resolver's historical
// behaviour: headless Chrome, 0.5s settle, 5s consent timeout and wait.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Cache: CacheSettings{
			Backend: CacheBackendJSON,
		},
		Browser: BrowserSettings{
			Headless:       true,
			SettleDelay:    500 * time.Millisecond,
			ConsentTimeout: 5 * time.Second,
			ConsentWait:    5 * time.Second,
			RedirectDelay:  500 * time.Millisecond,
			RatePerSecond:  1,
			ConsentLabels:  append([]string(nil), DefaultConsentLabels...),
		},
		Isolation: IsolationSettings{
			Metric: IsolationPlanar,
		},
	}
}
