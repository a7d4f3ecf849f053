package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	result  *driving.PipelineResult
	inspect *driving.InspectResult
	err     error

	lastRequest driving.PipelineRequest
	lastInspect string
}

func (m *mockPipeline) Run(_ context.Context, req driving.PipelineRequest) (*driving.PipelineResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockPipeline) Inspect(_ context.Context, inputPath string) (*driving.InspectResult, error) {
	m.lastInspect = inputPath
	if m.err != nil {
		return nil, m.err
	}
	return m.inspect, nil
}

// mockCacheService implements driving.CacheService for testing.
type mockCacheService struct {
	entries  []driving.CacheEntry
	stats    *driving.CacheStats
	failures []domain.ResolutionAttempt
	err      error

	lastLimit int
}

func (m *mockCacheService) List(_ context.Context) ([]driving.CacheEntry, error) {
	return m.entries, m.err
}

func (m *mockCacheService) Stats(_ context.Context) (*driving.CacheStats, error) {
	return m.stats, m.err
}

func (m *mockCacheService) Failures(_ context.Context, limit int) ([]domain.ResolutionAttempt, error) {
	m.lastLimit = limit
	return m.failures, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	list     []driving.Setting
	setErr   error
	set      map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		set:      make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) List() ([]driving.Setting, error) {
	return m.list, nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupServices injects services and restores the previous state on cleanup.
func setupServices(t *testing.T, s *Services) {
	t.Helper()
	oldBootstrap := bootstrap
	bootstrap = nil
	SetServices(s)
	t.Cleanup(func() {
		bootstrap = oldBootstrap
		SetServices(nil)
		resetFlags(rootCmd)
	})
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
