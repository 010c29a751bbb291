// Package abusescan is the forensic analysis facade: it ties hashing,
// ingestion, per-row analysis, summarization and artifact writing into
// a single run.
package abusescan

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/forensiq/abusescan/pkg/abusescan/chart"
	"github.com/forensiq/abusescan/pkg/abusescan/config"
	"github.com/forensiq/abusescan/pkg/abusescan/hash"
	"github.com/forensiq/abusescan/pkg/abusescan/ingest"
	"github.com/forensiq/abusescan/pkg/abusescan/integrity"
	"github.com/forensiq/abusescan/pkg/abusescan/keywords"
	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
	"github.com/forensiq/abusescan/pkg/abusescan/report"
	"github.com/forensiq/abusescan/pkg/abusescan/summary"
)

// DigestUnavailable is recorded when hashing fails but the run is
// configured to continue.
const DigestUnavailable = "N/A"

// Options configures an Analyzer.
type Options struct {
	Config config.Config

	// Logger defaults to a nop logger.
	Logger *zap.Logger

	// NewScorer builds sentiment scorers, one per worker. Defaults to
	// the VADER scorer.
	NewScorer pipeline.ScorerFactory

	// Integrity receives one entry per run. Nil disables integrity
	// logging.
	Integrity integrity.Log
}

// Analyzer runs the full analysis pipeline with a fixed configuration.
type Analyzer struct {
	cfg       config.Config
	presets   keywords.Presets
	logger    *zap.Logger
	newScorer pipeline.ScorerFactory
	intlog    integrity.Log
	entropy   *ulid.MonotonicEntropy

	// hashFile is replaceable in tests to force hashing failures.
	hashFile func(path, algorithm string, chunkSize int) (string, error)
}

// New creates an Analyzer. The configuration is validated once here.
func New(opts Options) (*Analyzer, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		cfg:       opts.Config,
		presets:   opts.Config.Presets(),
		logger:    logger,
		newScorer: opts.NewScorer,
		intlog:    opts.Integrity,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		hashFile:  hash.File,
	}, nil
}

// Close shuts down the integrity log, if any.
func (a *Analyzer) Close() error {
	if a.intlog == nil {
		return nil
	}
	return a.intlog.Close()
}

// RunRequest names the input of one run.
type RunRequest struct {
	InputPath string

	// Preset selects the keyword set. Unknown names fall back to the
	// general set.
	Preset string
}

// RunResult reports one completed run. ArtifactErrors carries the
// non-fatal failures (CSV, report, chart); a failed artifact is simply
// absent, never half-written.
type RunResult struct {
	RunID   string
	Digest  string
	Summary summary.Summary
	Rows    []pipeline.AnalyzedRecord

	ResultsCSV string
	ReportTXT  string
	ChartPNG   string

	ArtifactErrors []error
}

// Run executes the linear pipeline: hash, load, analyze, summarize,
// write CSV, write report, render chart. Hashing and schema failures
// abort the run; scoring and rendering failures degrade. The output
// stages are independent: a failure in one does not block the others.
func (a *Analyzer) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	res := RunResult{
		RunID: ulid.MustNew(ulid.Timestamp(time.Now()), a.entropy).String(),
	}

	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return res, fmt.Errorf("ensure output dir: %w", err)
	}

	digest, err := a.hashFile(req.InputPath, a.cfg.HashAlgorithm, a.cfg.HashChunkSize)
	if err != nil {
		if !a.cfg.ContinueOnError {
			return res, fmt.Errorf("hash input: %w", err)
		}
		a.logger.Warn("hashing failed, continuing without integrity verification",
			zap.String("file", req.InputPath),
			zap.Error(err))
		digest = DigestUnavailable
	}
	res.Digest = digest

	if a.intlog != nil && digest != DigestUnavailable {
		entry := integrity.Entry{
			Timestamp: time.Now(),
			FilePath:  req.InputPath,
			Digest:    digest,
			RunID:     res.RunID,
			Algorithm: a.cfg.HashAlgorithm,
		}
		if err := a.intlog.Append(ctx, entry); err != nil {
			a.logger.Warn("could not append integrity log", zap.Error(err))
		}
	}

	table, err := ingest.LoadCSV(req.InputPath, a.logger)
	if err != nil {
		return res, err
	}
	a.logger.Info("loaded records",
		zap.String("file", req.InputPath),
		zap.Int("count", len(table.Records)))

	set, known := a.presets.Resolve(req.Preset)
	if !known && req.Preset != "" {
		a.logger.Warn("unknown keyword preset, using general",
			zap.String("preset", req.Preset))
	}

	pipe := pipeline.New(pipeline.Options{
		Keywords:   set,
		Thresholds: a.cfg.Thresholds(),
		NewScorer:  a.newScorer,
		Workers:    a.cfg.Workers,
		StripHTML:  a.cfg.StripHTML,
		Logger:     a.logger,
	})
	rows, err := pipe.Analyze(ctx, table)
	if err != nil {
		return res, err
	}
	res.Rows = rows
	res.Summary = summary.Summarize(rows)

	if err := report.WriteCSV(table, rows, a.cfg.ResultsCSVPath(), a.cfg.CreateBackups); err != nil {
		a.logger.Error("could not write results csv", zap.Error(err))
		res.ArtifactErrors = append(res.ArtifactErrors, err)
	} else {
		res.ResultsCSV = a.cfg.ResultsCSVPath()
	}

	reportOpts := report.Options{
		SourcePath:  req.InputPath,
		Digest:      digest,
		Algorithm:   a.cfg.HashAlgorithm,
		GeneratedAt: time.Now(),
		Keywords:    set.Terms(),
		MaxFindings: a.cfg.MaxDetailedFindings,
		Backup:      a.cfg.CreateBackups,
	}
	if err := report.WriteReport(rows, res.Summary, reportOpts, a.cfg.ReportPath()); err != nil {
		a.logger.Error("could not write forensic report", zap.Error(err))
		res.ArtifactErrors = append(res.ArtifactErrors, err)
	} else {
		res.ReportTXT = a.cfg.ReportPath()
	}

	chartOpts := chart.Options{
		Width:             a.cfg.Chart.Width,
		Height:            a.cfg.Chart.Height,
		Bins:              a.cfg.Chart.Bins,
		ColorNegative:     a.cfg.Chart.ColorNegative,
		ColorNeutral:      a.cfg.Chart.ColorNeutral,
		ColorPositive:     a.cfg.Chart.ColorPositive,
		ColorAbusive:      a.cfg.Chart.ColorAbusive,
		ColorSafe:         a.cfg.Chart.ColorSafe,
		ColorPolarity:     a.cfg.Chart.ColorPolarity,
		ColorSubjectivity: a.cfg.Chart.ColorSubjectivity,
	}
	if err := chart.Render(rows, res.Summary, a.cfg.ChartPath(), chartOpts); err != nil {
		a.logger.Warn("could not render chart", zap.Error(err))
	} else {
		res.ChartPNG = a.cfg.ChartPath()
	}

	return res, nil
}
