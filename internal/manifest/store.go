package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists one row per produced container, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record describes a single successful container build.
type Record struct {
	ID          int64
	RunID       string
	SourcePath  string
	SourceSize  int64
	SourceMTime time.Time
	OutputPath  string
	PayloadSize uint64
	Duration    time.Duration
	CreatedAt   time.Time
}

// Open initializes or connects to the manifest database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS builds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    source_path TEXT NOT NULL,
    source_size INTEGER NOT NULL,
    source_mtime TEXT NOT NULL,
    output_path TEXT NOT NULL,
    payload_size INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_builds_source ON builds(source_path, id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Add inserts a build record and returns it with its assigned ID.
func (s *Store) Add(ctx context.Context, rec Record) (*Record, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO builds (
            run_id, source_path, source_size, source_mtime,
            output_path, payload_size, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.SourcePath,
		rec.SourceSize,
		rec.SourceMTime.UTC().Format(time.RFC3339Nano),
		rec.OutputPath,
		int64(rec.PayloadSize),
		rec.Duration.Milliseconds(),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert build record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = now
	return &rec, nil
}

// LatestForSource returns the newest record for sourcePath, or nil when the
// source has never been built.
func (s *Store) LatestForSource(ctx context.Context, sourcePath string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, run_id, source_path, source_size, source_mtime,
                output_path, payload_size, duration_ms, created_at
         FROM builds WHERE source_path = ? ORDER BY id DESC LIMIT 1`,
		sourcePath,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// UpToDate reports whether sourcePath was already built from the same bytes:
// the latest record matches the current size and mtime and the recorded output
// file still exists.
func (s *Store) UpToDate(ctx context.Context, sourcePath string, size int64, mtime time.Time) (bool, error) {
	rec, err := s.LatestForSource(ctx, sourcePath)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.SourceSize != size || !rec.SourceMTime.Equal(mtime) {
		return false, nil
	}
	if _, err := os.Stat(rec.OutputPath); err != nil {
		return false, nil
	}
	return true, nil
}

// ListRun returns the records produced by a single run, oldest first.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, source_path, source_size, source_mtime,
                output_path, payload_size, duration_ms, created_at
         FROM builds WHERE run_id = ? ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec         Record
		mtimeRaw    string
		createdRaw  string
		payloadSize int64
		durationMS  int64
	)
	if err := row.Scan(
		&rec.ID, &rec.RunID, &rec.SourcePath, &rec.SourceSize, &mtimeRaw,
		&rec.OutputPath, &payloadSize, &durationMS, &createdRaw,
	); err != nil {
		return nil, err
	}

	mtime, err := time.Parse(time.RFC3339Nano, mtimeRaw)
	if err != nil {
		return nil, fmt.Errorf("parse source mtime: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	rec.SourceMTime = mtime
	rec.CreatedAt = created
	rec.PayloadSize = uint64(payloadSize)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return &rec, nil
}
