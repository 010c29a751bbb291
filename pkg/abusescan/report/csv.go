package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/forensiq/abusescan/pkg/abusescan/ingest"
	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
)

// Derived column names appended to the original columns.
const (
	ColIsAbusive    = "is_abusive"
	ColPolarity     = "sentiment_polarity"
	ColSubjectivity = "sentiment_subjectivity"
	ColClass        = "sentiment_class"
)

// WriteCSV serializes the enriched table: every original column in its
// original order plus the four derived columns, with a header row. The
// file is written in one shot so a failure never leaves a partial
// artifact behind. When backup is set an existing file is renamed to
// <path>.bak first.
func WriteCSV(table *ingest.Table, rows []pipeline.AnalyzedRecord, path string, backup bool) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append(append([]string{}, table.Columns...),
		ColIsAbusive, ColPolarity, ColSubjectivity, ColClass)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(header))
		for _, col := range table.Columns {
			record = append(record, row.Field(col))
		}
		record = append(record,
			strconv.FormatBool(row.IsAbusive),
			formatFloat(row.Polarity),
			formatFloat(row.Subjectivity),
			string(row.Class))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Index, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if backup {
		backupExisting(path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// backupExisting renames an existing artifact to <path>.bak.
func backupExisting(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = os.Rename(path, path+".bak")
}
