// Package integrity defines the append-only evidence integrity log: a
// durable record of which file was hashed to which digest, and when.
// Entries are never mutated or deleted.
package integrity

import (
	"context"
	"time"
)

// Entry is one integrity record.
type Entry struct {
	Timestamp time.Time
	FilePath  string
	Digest    string

	// RunID and Algorithm are carried by backends that have room for
	// them; the plain-text backend keeps the canonical three-field
	// line format.
	RunID     string
	Algorithm string
}

// Log persists integrity entries. Implementations must serialize
// concurrent appends so entries never interleave.
type Log interface {
	Append(ctx context.Context, e Entry) error
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

// Latest returns the most recent entry for the given file path.
func Latest(ctx context.Context, log Log, filePath string) (Entry, bool, error) {
	entries, err := log.Entries(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].FilePath == filePath {
			return entries[i], true, nil
		}
	}
	return Entry{}, false, nil
}
