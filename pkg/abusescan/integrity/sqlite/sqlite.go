// Package sqlite implements the integrity log on SQLite, for
// deployments that want queryable evidence history across many runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
)

// Log is a SQLite-backed integrity log.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the integrity database at path with WAL mode
// enabled and the schema initialized.
func Open(ctx context.Context, path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL gives concurrent runs safe single-writer appends
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Log{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS integrity_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT,
	logged_at TEXT NOT NULL,
	file_path TEXT NOT NULL,
	digest TEXT NOT NULL,
	algorithm TEXT
);

CREATE INDEX IF NOT EXISTS idx_integrity_file_path ON integrity_log(file_path);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Append implements integrity.Log.
func (l *Log) Append(ctx context.Context, e integrity.Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO integrity_log (run_id, logged_at, file_path, digest, algorithm) VALUES (?, ?, ?, ?, ?)`,
		e.RunID, ts.Format(time.RFC3339), e.FilePath, e.Digest, e.Algorithm)
	if err != nil {
		return fmt.Errorf("append integrity entry: %w", err)
	}
	return nil
}

// Entries implements integrity.Log, returning entries in append order.
func (l *Log) Entries(ctx context.Context) ([]integrity.Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, logged_at, file_path, digest, algorithm FROM integrity_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query integrity log: %w", err)
	}
	defer rows.Close()

	var entries []integrity.Entry
	for rows.Next() {
		var e integrity.Entry
		var loggedAt string
		if err := rows.Scan(&e.RunID, &loggedAt, &e.FilePath, &e.Digest, &e.Algorithm); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, loggedAt); err == nil {
			e.Timestamp = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close implements integrity.Log.
func (l *Log) Close() error { return l.db.Close() }
