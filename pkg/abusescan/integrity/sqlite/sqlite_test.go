package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := Open(context.Background(), filepath.Join(t.TempDir(), "integrity.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestAppendAndEntries(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	when := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	entry := integrity.Entry{
		Timestamp: when,
		FilePath:  "incident_log.csv",
		Digest:    "abc123",
		RunID:     "01JD0000000000000000000000",
		Algorithm: "sha256",
	}
	if err := log.Append(ctx, entry); err != nil {
		t.Fatal(err)
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.FilePath != entry.FilePath || got.Digest != entry.Digest ||
		got.RunID != entry.RunID || got.Algorithm != entry.Algorithm {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if !got.Timestamp.Equal(when) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, when)
	}
}

func TestEntriesPreserveAppendOrder(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	digests := []string{"d1", "d2", "d3"}
	for _, d := range digests {
		if err := log.Append(ctx, integrity.Entry{FilePath: "a.csv", Digest: d}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(digests) {
		t.Fatalf("expected %d entries, got %d", len(digests), len(entries))
	}
	for i, d := range digests {
		if entries[i].Digest != d {
			t.Errorf("entry %d digest = %q, want %q", i, entries[i].Digest, d)
		}
	}
}

func TestLatestAcrossBackend(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	if err := log.Append(ctx, integrity.Entry{FilePath: "a.csv", Digest: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := log.Append(ctx, integrity.Entry{FilePath: "a.csv", Digest: "second"}); err != nil {
		t.Fatal(err)
	}

	entry, found, err := integrity.Latest(ctx, log, "a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !found || entry.Digest != "second" {
		t.Errorf("Latest = %+v found=%v", entry, found)
	}
}
