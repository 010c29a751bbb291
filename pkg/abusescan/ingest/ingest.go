// Package ingest loads tabular message logs for analysis. Input is CSV
// with a header row; all columns are passed through unchanged, and the
// short_text column is required.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
)

// RequiredColumn must be present in every input file.
const RequiredColumn = "short_text"

// IDColumn, when present, supplies record identity; otherwise the
// positional index is used.
const IDColumn = "id"

// PlatformColumn is an optional pass-through column surfaced in the
// detailed-findings report.
const PlatformColumn = "platform"

// Record is one input row. Fields holds every original column value.
type Record struct {
	Index  int
	Fields map[string]string
}

// Field returns the value of the named column, or "" when absent.
func (r Record) Field(name string) string { return r.Fields[name] }

// Text returns the message text under analysis.
func (r Record) Text() string { return r.Fields[RequiredColumn] }

// ID returns the id column value, falling back to the positional index.
func (r Record) ID() string {
	if id := r.Fields[IDColumn]; id != "" {
		return id
	}
	return strconv.Itoa(r.Index)
}

// Table is an ordered set of records with their original column order.
type Table struct {
	Columns []string
	Records []Record
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// LoadCSV reads a message log from path. The header row defines the
// column set; the short_text column is required and its absence yields
// internalerr.ErrMissingColumn. Malformed rows are skipped with a
// warning so one bad line does not abort a run.
func LoadCSV(path string, logger *zap.Logger) (*Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, internalerr.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty, no header row: %w", path, internalerr.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	table := &Table{Columns: header}
	if !table.HasColumn(RequiredColumn) {
		return nil, fmt.Errorf("%s: column %q: %w", path, RequiredColumn, internalerr.ErrMissingColumn)
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		if len(row) != len(header) {
			logger.Warn("skipping malformed row",
				zap.String("file", path),
				zap.Int("line", line),
				zap.Int("fields", len(row)),
				zap.Int("want", len(header)))
			continue
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			fields[col] = row[i]
		}
		table.Records = append(table.Records, Record{
			Index:  len(table.Records),
			Fields: fields,
		})
	}

	return table, nil
}
