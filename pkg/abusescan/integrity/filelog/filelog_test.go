package filelog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
)

func TestAppendAndEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "integrity_hashes.txt")
	log := Open(path)
	ctx := context.Background()

	when := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	err := log.Append(ctx, integrity.Entry{
		Timestamp: when,
		FilePath:  "incident_log.csv",
		Digest:    "abc123",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "2026-08-24T10:30:00Z | incident_log.csv | abc123\n"
	if string(data) != want {
		t.Errorf("line = %q, want %q", data, want)
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Digest != "abc123" || !entries[0].Timestamp.Equal(when) {
		t.Errorf("entry roundtrip mismatch: %+v", entries[0])
	}
}

func TestEntriesMissingFile(t *testing.T) {
	log := Open(filepath.Join(t.TempDir(), "nope.txt"))
	entries, err := log.Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if entries != nil {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestEntriesSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	content := "garbage line\n" +
		"2026-08-24T10:30:00Z | a.csv | d1\n" +
		"not-a-time | b.csv | d2\n" +
		"2026-08-24T10:31:00Z | c.csv | d3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Open(path).Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 parseable entries, got %d", len(entries))
	}
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	log := Open(path)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.Append(ctx, integrity.Entry{
				FilePath: fmt.Sprintf("file-%d.csv", i),
				Digest:   strings.Repeat("a", 8),
			})
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("expected %d lines, got %d", n, len(lines))
	}
	for _, line := range lines {
		if len(strings.Split(line, " | ")) != 3 {
			t.Errorf("interleaved or corrupt line: %q", line)
		}
	}
}

func TestLatest(t *testing.T) {
	log := Open(filepath.Join(t.TempDir(), "log.txt"))
	ctx := context.Background()

	for i, digest := range []string{"old", "mid", "new"} {
		err := log.Append(ctx, integrity.Entry{
			Timestamp: time.Date(2026, 8, 24, 10, i, 0, 0, time.UTC),
			FilePath:  "a.csv",
			Digest:    digest,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entry, found, err := integrity.Latest(ctx, log, "a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected an entry for a.csv")
	}
	if entry.Digest != "new" {
		t.Errorf("Latest digest = %q, want new", entry.Digest)
	}

	if _, found, _ := integrity.Latest(ctx, log, "other.csv"); found {
		t.Error("unexpected entry for unlogged path")
	}
}
