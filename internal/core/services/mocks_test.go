package services

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
	"github.com/custodia-labs/placemap/internal/logger"
)

// quietLogs silences progress output for the duration of a test.
func quietLogs(t *testing.T) {
	t.Helper()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
}

// mockSession implements driven.BrowserSession for testing.
// redirects maps a navigated URL to the address the "page" ends up on.
type mockSession struct {
	redirects   map[string]string
	consent     map[string]bool
	navigateErr map[string]error
	clickErr    error

	current   string
	navigated []string
	clicks    int
	closed    int

	// onNavigate runs after each navigation; used to cancel mid-batch.
	onNavigate func(url string)
}

func newMockSession() *mockSession {
	return &mockSession{
		redirects:   make(map[string]string),
		consent:     make(map[string]bool),
		navigateErr: make(map[string]error),
	}
}

func (m *mockSession) Navigate(_ context.Context, url string) error {
	if m.closed > 0 {
		return domain.ErrSessionClosed
	}
	m.navigated = append(m.navigated, url)
	if m.onNavigate != nil {
		m.onNavigate(url)
	}
	if err := m.navigateErr[url]; err != nil {
		return err
	}
	m.current = url
	if !m.consent[url] {
		if final, ok := m.redirects[url]; ok {
			m.current = final
		}
	}
	return nil
}

func (m *mockSession) CurrentURL(_ context.Context) (string, error) {
	if m.closed > 0 {
		return "", domain.ErrSessionClosed
	}
	return m.current, nil
}

func (m *mockSession) ClickButtonContaining(_ context.Context, labels []string, _ time.Duration) (bool, error) {
	if m.clickErr != nil {
		return false, m.clickErr
	}
	if len(labels) == 0 || !m.consent[m.current] {
		return false, nil
	}
	m.clicks++
	url := m.current
	if final, ok := m.redirects[url]; ok {
		m.current = final
	}
	return true, nil
}

func (m *mockSession) Close() error {
	m.closed++
	return nil
}

// mockLauncher implements driven.BrowserLauncher for testing.
type mockLauncher struct {
	session   *mockSession
	launchErr error
	launches  int
}

func (l *mockLauncher) Launch(_ context.Context) (driven.BrowserSession, error) {
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	// A relaunch gets a live session again.
	l.session.closed = 0
	return l.session, nil
}

// failingCacheStore wraps a cache store and fails loads or saves on demand.
type failingCacheStore struct {
	driven.CacheStore
	loadErr    error
	saveErr    error
	failSaves  int
	saveCalls  int
	savedSizes []int
}

func (f *failingCacheStore) Load(ctx context.Context) (domain.CoordinateCache, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.CacheStore.Load(ctx)
}

func (f *failingCacheStore) Save(ctx context.Context, cache domain.CoordinateCache) error {
	f.saveCalls++
	if f.saveErr != nil && (f.failSaves == 0 || f.saveCalls <= f.failSaves) {
		return f.saveErr
	}
	f.savedSizes = append(f.savedSizes, len(cache))
	return f.CacheStore.Save(ctx, cache)
}

// mockReader implements driven.DatasetReader for testing.
type mockReader struct {
	records []domain.LocationRecord
	err     error
	reads   int
}

func (r *mockReader) Read(_ context.Context, _ string) ([]domain.LocationRecord, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.LocationRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// mockWriter implements driven.DatasetWriter for testing.
type mockWriter struct {
	path    string
	records []domain.LocationRecord
	err     error
}

func (w *mockWriter) Write(_ context.Context, path string, records []domain.LocationRecord) error {
	if w.err != nil {
		return w.err
	}
	w.path = path
	w.records = records
	return nil
}

var errDiskFull = errors.New("disk full")

// noSleep replaces the resolver's waits in tests.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
