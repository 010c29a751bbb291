// Package filelog implements the integrity log as append-only
// "timestamp | file_path | digest" text lines.
package filelog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
)

// Log appends integrity lines to a single text file. Appends are
// serialized: a mutex covers in-process writers and each entry goes
// out as one O_APPEND write, so concurrent runs never interleave
// partial lines.
type Log struct {
	mu   sync.Mutex
	path string
}

// Open returns a log backed by the file at path. The file is created
// on first append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Append implements integrity.Log.
func (l *Log) Append(ctx context.Context, e integrity.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s | %s | %s\n", ts.Format(time.RFC3339), e.FilePath, e.Digest)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open integrity log %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append integrity log %s: %w", l.path, err)
	}
	return nil
}

// Entries implements integrity.Log. Malformed lines are skipped so a
// damaged log still yields every parseable entry.
func (l *Log) Entries(ctx context.Context) ([]integrity.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read integrity log %s: %w", l.path, err)
	}

	var entries []integrity.Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, " | ")
		if len(parts) != 3 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			continue
		}
		entries = append(entries, integrity.Entry{
			Timestamp: ts,
			FilePath:  parts[1],
			Digest:    parts[2],
		})
	}
	return entries, nil
}

// Close implements integrity.Log.
func (l *Log) Close() error { return nil }
