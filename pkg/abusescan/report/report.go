// Package report renders the run artifacts: the enriched CSV and the
// fixed-format plain-text forensic report. The report layout is a
// forensic artifact; section order, labels and field widths are fixed
// and must not drift between releases.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forensiq/abusescan/pkg/abusescan/ingest"
	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
	"github.com/forensiq/abusescan/pkg/abusescan/summary"
)

const rule = 80

// Options carries the evidence metadata stamped into the report.
type Options struct {
	SourcePath  string
	Digest      string
	Algorithm   string
	GeneratedAt time.Time

	// Keywords is the full keyword list used for the run, already
	// lowercase; it is printed alphabetically sorted.
	Keywords []string

	// MaxFindings caps the detailed-findings table. Rows beyond the
	// cap collapse into a truncation notice. Zero means no cap.
	MaxFindings int

	Backup bool
}

// WriteReport renders the forensic report to path. The document has
// five ordered sections: evidence header, abuse-detection summary,
// sentiment summary, detailed findings and a closing marker.
func WriteReport(rows []pipeline.AnalyzedRecord, sum summary.Summary, opts Options, path string) error {
	var b bytes.Buffer

	line := strings.Repeat("=", rule)
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "DIGITAL FORENSIC ANALYSIS REPORT - ONLINE ABUSE DETECTION\n")
	fmt.Fprintf(&b, "%s\n\n", line)

	fmt.Fprintf(&b, "[EVIDENCE INFORMATION]\n")
	fmt.Fprintf(&b, "Source File: %s\n", opts.SourcePath)
	fmt.Fprintf(&b, "%s Hash: %s\n", strings.ToUpper(opts.Algorithm), opts.Digest)
	fmt.Fprintf(&b, "Analysis Date: %s\n", opts.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Total Records: %d\n\n", sum.TotalMessages)

	fmt.Fprintf(&b, "[ABUSE DETECTION RESULTS]\n")
	fmt.Fprintf(&b, "Abusive Messages Found: %d\n", sum.AbusiveCount)
	fmt.Fprintf(&b, "Abuse Percentage: %.2f%%\n", sum.AbusivePercentage)
	fmt.Fprintf(&b, "Abusive Keywords Used: %s\n\n", strings.Join(opts.Keywords, ", "))

	fmt.Fprintf(&b, "[SENTIMENT ANALYSIS]\n")
	fmt.Fprintf(&b, "Average Polarity: %.4f\n", sum.AvgPolarity)
	fmt.Fprintf(&b, "Average Subjectivity: %.4f\n", sum.AvgSubjectivity)
	fmt.Fprintf(&b, "Sentiment Distribution:\n")
	// Fixed Negative/Neutral/Positive order, independent of counts, so
	// reports diff cleanly across runs.
	for _, class := range sentiment.Classes() {
		count, ok := sum.SentimentCounts[class]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s: %d (%.2f%%)\n", class, count, sum.ClassPercentage(class))
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "[DETAILED FINDINGS]\n")
	fmt.Fprintf(&b, "%-10s %-15s %-10s %-12s %-12s\n", "ID", "Platform", "Abusive", "Polarity", "Sentiment")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", rule))

	for i, row := range rows {
		if opts.MaxFindings > 0 && i >= opts.MaxFindings {
			fmt.Fprintf(&b, "... (%d more records)\n", len(rows)-i)
			break
		}

		abusive := "NO"
		if row.IsAbusive {
			abusive = "YES"
		}
		fmt.Fprintf(&b, "%-10s %-15s %-10s %-12s %-12s\n",
			clip(row.ID(), 10),
			clip(platform(row), 15),
			abusive,
			fmt.Sprintf("%.4f", row.Polarity),
			string(row.Class))
	}

	fmt.Fprintf(&b, "\n%s\n", line)
	fmt.Fprintf(&b, "END OF REPORT\n")
	fmt.Fprintf(&b, "%s\n", line)

	if opts.Backup {
		backupExisting(path)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func platform(row pipeline.AnalyzedRecord) string {
	if p := row.Field(ingest.PlatformColumn); p != "" {
		return p
	}
	return "N/A"
}

// clip truncates to max runes, never splitting a multibyte character.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}
