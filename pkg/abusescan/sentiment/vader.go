package sentiment

import (
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// VaderScorer scores text against the VADER sentiment lexicon. The
// compound score maps to polarity; the non-neutral proportion of the
// text maps to subjectivity.
type VaderScorer struct{}

// NewVaderScorer returns a lexicon-backed scorer.
func NewVaderScorer() *VaderScorer { return &VaderScorer{} }

// Score implements Scorer.
func (v *VaderScorer) Score(text string) (Score, error) {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	result := sentitext.PolarityScore(parsed)
	return Score{
		Polarity:     result.Compound,
		Subjectivity: result.Positive + result.Negative,
	}, nil
}
