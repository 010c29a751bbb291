// Package pipeline applies the per-row analysis: keyword match,
// sentiment score, classification. Rows are independent of each other
// and the output order always equals the input order, which the
// detailed-findings report depends on.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forensiq/abusescan/pkg/abusescan/ingest"
	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
	"github.com/forensiq/abusescan/pkg/abusescan/keywords"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
)

// AnalyzedRecord is a Record plus the four derived fields, computed
// once from the record's text.
type AnalyzedRecord struct {
	ingest.Record

	IsAbusive    bool
	Polarity     float64
	Subjectivity float64
	Class        sentiment.Class
}

// ScorerFactory builds a scorer for one worker. Scorers are not
// assumed reentrant, so each worker owns its own.
type ScorerFactory func() sentiment.Scorer

// Options configures a Pipeline.
type Options struct {
	Keywords   keywords.Set
	Thresholds sentiment.Thresholds
	NewScorer  ScorerFactory
	Workers    int
	StripHTML  bool
	Logger     *zap.Logger
}

// Pipeline is a stateless per-row transform.
type Pipeline struct {
	keywords   keywords.Set
	thresholds sentiment.Thresholds
	newScorer  ScorerFactory
	workers    int
	stripHTML  bool
	logger     *zap.Logger
}

// New creates a pipeline with the given options. Missing options get
// sensible defaults: VADER scoring, sequential execution, nop logging.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		keywords:   opts.Keywords,
		thresholds: opts.Thresholds,
		newScorer:  opts.NewScorer,
		workers:    opts.Workers,
		stripHTML:  opts.StripHTML,
		logger:     opts.Logger,
	}
	if p.newScorer == nil {
		p.newScorer = func() sentiment.Scorer { return sentiment.NewVaderScorer() }
	}
	if p.workers < 1 {
		p.workers = 1
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if (p.thresholds == sentiment.Thresholds{}) {
		p.thresholds = sentiment.DefaultThresholds()
	}
	return p
}

// Analyze computes the derived fields for every record in the table.
// The result preserves input row order for any input size. Scoring
// failures degrade to a neutral score with a warning and never abort
// the run.
func (p *Pipeline) Analyze(ctx context.Context, table *ingest.Table) ([]AnalyzedRecord, error) {
	if !table.HasColumn(ingest.RequiredColumn) {
		return nil, fmt.Errorf("column %q: %w", ingest.RequiredColumn, internalerr.ErrMissingColumn)
	}

	results := make([]AnalyzedRecord, len(table.Records))
	if len(results) == 0 {
		return results, nil
	}

	workers := p.workers
	if workers > len(table.Records) {
		workers = len(table.Records)
	}

	if workers == 1 {
		scorer := p.newScorer()
		for i, rec := range table.Records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = p.analyzeOne(scorer, rec)
		}
		return results, nil
	}

	// Contiguous shards, one scorer per shard; results are written by
	// index so the join preserves input order without any locking.
	g, ctx := errgroup.WithContext(ctx)
	per := (len(table.Records) + workers - 1) / workers
	for lo := 0; lo < len(table.Records); lo += per {
		hi := lo + per
		if hi > len(table.Records) {
			hi = len(table.Records)
		}
		lo, hi := lo, hi
		g.Go(func() error {
			scorer := p.newScorer()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = p.analyzeOne(scorer, table.Records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) analyzeOne(scorer sentiment.Scorer, rec ingest.Record) AnalyzedRecord {
	text := rec.Text()
	if p.stripHTML {
		text = ingest.StripHTML(text)
	}

	score := p.scoreText(scorer, rec.Index, text)
	return AnalyzedRecord{
		Record:       rec,
		IsAbusive:    p.keywords.ContainsAbuse(text),
		Polarity:     score.Polarity,
		Subjectivity: score.Subjectivity,
		Class:        p.thresholds.Classify(score.Polarity),
	}
}

// scoreText invokes the external scorer. Blank text short-circuits to
// a zero score without touching the scorer; scorer failures degrade to
// a zero score with a warning.
func (p *Pipeline) scoreText(scorer sentiment.Scorer, row int, text string) sentiment.Score {
	if strings.TrimSpace(text) == "" {
		return sentiment.Score{}
	}

	score, err := scorer.Score(text)
	if err != nil {
		p.logger.Warn("sentiment scoring failed, using neutral score",
			zap.Int("row", row),
			zap.Error(err))
		return sentiment.Score{}
	}
	return score
}
