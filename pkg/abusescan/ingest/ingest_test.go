package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "id,platform,short_text\n1,twitter,hello\n2,facebook,world\n")

	table, err := LoadCSV(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", table.Columns)
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	if got := table.Records[0].Text(); got != "hello" {
		t.Errorf("record 0 text = %q", got)
	}
	if got := table.Records[1].Field("platform"); got != "facebook" {
		t.Errorf("record 1 platform = %q", got)
	}
	for i, rec := range table.Records {
		if rec.Index != i {
			t.Errorf("record %d has index %d", i, rec.Index)
		}
	}
}

func TestLoadCSVMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "id,message\n1,hello\n")

	_, err := LoadCSV(path, nil)
	if !errors.Is(err, internalerr.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadCSVNotFound(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCSVZeroRows(t *testing.T) {
	path := writeCSV(t, "short_text\n")

	table, err := LoadCSV(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Records) != 0 {
		t.Errorf("expected empty table, got %d records", len(table.Records))
	}
}

func TestLoadCSVSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "id,short_text\n1,first\n2\n3,third\n")

	table, err := LoadCSV(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(table.Records))
	}
	if table.Records[1].Text() != "third" {
		t.Errorf("order of surviving rows broken: %q", table.Records[1].Text())
	}
}

func TestRecordID(t *testing.T) {
	withID := Record{Index: 4, Fields: map[string]string{"id": "msg-9"}}
	if got := withID.ID(); got != "msg-9" {
		t.Errorf("ID() = %q, want msg-9", got)
	}

	positional := Record{Index: 4, Fields: map[string]string{}}
	if got := positional.ID(); got != "4" {
		t.Errorf("ID() = %q, want positional 4", got)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text stays", "plain text stays"},
		{"<p>You are <b>stupid</b></p>", "You are stupid"},
		{"a < b still fine", "a < b still fine"},
	}
	for _, c := range cases {
		if got := StripHTML(c.in); got != c.want {
			t.Errorf("StripHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
