// Package cli provides the placemap command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
	"github.com/custodia-labs/placemap/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Services holds the driving ports the commands call.
type Services struct {
	Settings driving.SettingsService
	Pipeline driving.Pipeline
	Cache    driving.CacheService

	// Close releases whatever the services hold open. May be nil.
	Close func() error
}

// Bootstrap builds the services once flags are parsed. configDir is empty
// when the default applies. override adjusts the loaded settings for this
// invocation only and is never persisted.
type Bootstrap func(configDir string, override func(*domain.AppSettings)) (*Services, error)

var (
	bootstrap Bootstrap

	settingsService driving.SettingsService
	pipeline        driving.Pipeline
	cacheService    driving.CacheService
	closeServices   func() error
)

// Global flags.
var (
	verbose      bool
	configDir    string
	cacheBackend string
	cachePath    string
)

var rootCmd = &cobra.Command{
	Use:   "placemap",
	Short: "Fill in and map saved places",
	Long: `placemap reads a saved-places export, fills in missing coordinates by
following each place's map link in a headless browser, caches every result
locally and writes a GeoJSON dataset with a per-place isolation distance.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.placemap)")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "cache backend for this run: json, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache-path", "", "cache file for this run")
}

// Execute runs the root command. Services are released even when the
// command fails.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, teardown(rootCmd, nil))
}

// SetVersion sets the version reported by "placemap version".
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		settingsService, pipeline, cacheService, closeServices = nil, nil, nil, nil
		return
	}
	settingsService = s.Settings
	pipeline = s.Pipeline
	cacheService = s.Cache
	closeServices = s.Close
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cacheBackend != "" && !domain.CacheBackend(cacheBackend).IsValid() {
		return fmt.Errorf("%w: cache backend %q (want json, sqlite or memory)", domain.ErrInvalidInput, cacheBackend)
	}

	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	s, err := bootstrap(configDir, overrides(cmd))
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// overrides collects the flags that change settings for one invocation.
func overrides(cmd *cobra.Command) func(*domain.AppSettings) {
	flags := cmd.Flags()
	return func(s *domain.AppSettings) {
		if cacheBackend != "" {
			s.Cache.Backend = domain.CacheBackend(cacheBackend)
		}
		if cachePath != "" {
			s.Cache.Path = cachePath
		}
		if flags.Lookup("headed") != nil && flags.Changed("headed") {
			s.Browser.Headless = !runHeaded
		}
		if flags.Lookup("chrome") != nil && flags.Changed("chrome") {
			s.Browser.ExecPath = runChromePath
		}
		if flags.Lookup("metric") != nil && flags.Changed("metric") {
			s.Isolation.Metric = domain.IsolationMetric(runMetric)
		}
	}
}

var errNotConfigured = errors.New("not configured")

// notConfigured reports a command whose service was never wired.
func notConfigured(name string) error {
	return fmt.Errorf("%s service %w", name, errNotConfigured)
}
