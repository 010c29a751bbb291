package sentiment

import (
	"fmt"

	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
)

// Class is the three-way sentiment classification of a message.
type Class string

const (
	ClassNegative Class = "Negative"
	ClassNeutral  Class = "Neutral"
	ClassPositive Class = "Positive"
)

// Classes lists all classes in report order.
func Classes() []Class {
	return []Class{ClassNegative, ClassNeutral, ClassPositive}
}

// Score is the result of scoring one message. Polarity is nominally in
// [-1, 1], Subjectivity in [0, 1].
type Score struct {
	Polarity     float64
	Subjectivity float64
}

// Scorer scores the sentiment of a single text. Implementations wrap
// an external scoring capability and are not assumed to be safe for
// concurrent use; callers that fan out must give each worker its own
// Scorer.
type Scorer interface {
	Score(text string) (Score, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(text string) (Score, error)

// Score implements Scorer.
func (f ScorerFunc) Score(text string) (Score, error) { return f(text) }

// Thresholds maps polarity to a Class. Boundary values equal to a
// threshold classify as Neutral (strict inequality only).
type Thresholds struct {
	Negative float64
	Positive float64
}

// DefaultThresholds returns the standard -0.1 / 0.1 thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Negative: -0.1, Positive: 0.1}
}

// Validate checks that the negative threshold is below the positive one.
func (t Thresholds) Validate() error {
	if t.Negative >= t.Positive {
		return fmt.Errorf("%w: negative threshold %v must be below positive threshold %v",
			internalerr.ErrInvalidConfig, t.Negative, t.Positive)
	}
	return nil
}

// Classify maps a polarity to Negative, Neutral or Positive.
func (t Thresholds) Classify(polarity float64) Class {
	switch {
	case polarity < t.Negative:
		return ClassNegative
	case polarity > t.Positive:
		return ClassPositive
	default:
		return ClassNeutral
	}
}
