package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/placemap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driven"
)

// DefaultFileName is the database file name used when no path is given.
const DefaultFileName = "coords_cache.db"

// Store is a SQLite-based storage that provides access to the cache
// interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at dbPath and applies pending
// migrations. If dbPath is empty, defaults to ~/.placemap/coords_cache.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".placemap", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CacheStore returns a CacheStore interface backed by this store.
func (s *Store) CacheStore() driven.CacheStore {
	return &cacheStore{store: s}
}

// AttemptLog returns an AttemptLog interface backed by this store.
func (s *Store) AttemptLog() driven.AttemptLog {
	return &attemptLog{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Cache Store ====================

// cacheStore implements driven.CacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// Load returns every cached coordinate.
func (s *cacheStore) Load(ctx context.Context) (domain.CoordinateCache, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT url, east, north FROM coordinates")
	if err != nil {
		return nil, fmt.Errorf("%w: querying coordinates: %w", domain.ErrCacheUnavailable, err)
	}
	defer rows.Close()

	cache := domain.NewCoordinateCache()
	for rows.Next() {
		var url string
		var coord domain.Coordinate
		if err := rows.Scan(&url, &coord.East, &coord.North); err != nil {
			return nil, fmt.Errorf("%w: scanning coordinate: %w", domain.ErrCacheUnavailable, err)
		}
		cache[url] = coord
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating coordinates: %w", domain.ErrCacheUnavailable, err)
	}
	return cache, nil
}

// Save replaces the stored mapping with cache in a single transaction.
// Rows for unchanged URLs keep their original created_at.
func (s *cacheStore) Save(ctx context.Context, cache domain.CoordinateCache) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrCacheUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := existingURLs(ctx, tx)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO coordinates (url, east, north)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			east = excluded.east,
			north = excluded.north
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", domain.ErrCacheUnavailable, err)
	}
	defer stmt.Close()

	for _, url := range cache.Keys() {
		coord := cache[url]
		if _, err := stmt.ExecContext(ctx, url, coord.East, coord.North); err != nil {
			return fmt.Errorf("%w: saving %s: %w", domain.ErrCacheUnavailable, url, err)
		}
		delete(existing, url)
	}

	for url := range existing {
		if _, err := tx.ExecContext(ctx, "DELETE FROM coordinates WHERE url = ?", url); err != nil {
			return fmt.Errorf("%w: deleting %s: %w", domain.ErrCacheUnavailable, url, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func existingURLs(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, "SELECT url FROM coordinates")
	if err != nil {
		return nil, fmt.Errorf("%w: querying urls: %w", domain.ErrCacheUnavailable, err)
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("%w: scanning url: %w", domain.ErrCacheUnavailable, err)
		}
		urls[url] = struct{}{}
	}
	return urls, rows.Err()
}

// ==================== Attempt Log ====================

// attemptLog implements driven.AttemptLog.
type attemptLog struct {
	store *Store
}

var _ driven.AttemptLog = (*attemptLog)(nil)

// Record appends one attempt.
func (s *attemptLog) Record(ctx context.Context, attempt domain.ResolutionAttempt) error {
	var east, north sql.NullFloat64
	if attempt.Outcome == domain.AttemptResolved {
		east = sql.NullFloat64{Float64: attempt.Coordinate.East, Valid: true}
		north = sql.NullFloat64{Float64: attempt.Coordinate.North, Valid: true}
	}

	at := attempt.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO resolution_attempts (run_id, url, final_url, outcome, east, north, error, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, attempt.RunID, attempt.URL, attempt.FinalURL, string(attempt.Outcome), east, north, attempt.Error, at.UTC())
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// ListFailures returns failed attempts, newest first.
func (s *attemptLog) ListFailures(ctx context.Context, limit int) ([]domain.ResolutionAttempt, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, url, final_url, outcome, error, attempted_at
		FROM resolution_attempts
		WHERE outcome = ?
		ORDER BY attempted_at DESC, id DESC
		LIMIT ?
	`, string(domain.AttemptFailed), limit)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var attempts []domain.ResolutionAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating failures: %w", err)
	}
	return attempts, nil
}

func scanAttempt(rows *sql.Rows) (domain.ResolutionAttempt, error) {
	var attempt domain.ResolutionAttempt
	var outcome string
	var at sql.NullTime
	if err := rows.Scan(&attempt.RunID, &attempt.URL, &attempt.FinalURL, &outcome, &attempt.Error, &at); err != nil {
		return attempt, fmt.Errorf("scanning attempt: %w", err)
	}
	attempt.Outcome = domain.AttemptOutcome(outcome)
	if at.Valid {
		attempt.At = at.Time
	}
	return attempt, nil
}
