// Package summary aggregates analyzed records into run-level counts
// and means. A Summary is recomputed fresh each run and only rendered,
// never persisted.
package summary

import (
	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
)

// Summary aggregates one full analysis run.
type Summary struct {
	TotalMessages     int
	AbusiveCount      int
	AbusivePercentage float64

	// SentimentCounts holds per-class counts. Classes with zero
	// occurrences are absent from the map.
	SentimentCounts map[sentiment.Class]int

	AvgPolarity     float64
	AvgSubjectivity float64
}

// Summarize aggregates the rows. An empty input yields zero counts,
// a 0 percentage and 0.0 means.
func Summarize(rows []pipeline.AnalyzedRecord) Summary {
	s := Summary{
		TotalMessages:   len(rows),
		SentimentCounts: make(map[sentiment.Class]int),
	}

	var sumPolarity, sumSubjectivity float64
	for _, row := range rows {
		if row.IsAbusive {
			s.AbusiveCount++
		}
		s.SentimentCounts[row.Class]++
		sumPolarity += row.Polarity
		sumSubjectivity += row.Subjectivity
	}

	if s.TotalMessages > 0 {
		s.AbusivePercentage = float64(s.AbusiveCount) / float64(s.TotalMessages) * 100
		s.AvgPolarity = sumPolarity / float64(s.TotalMessages)
		s.AvgSubjectivity = sumSubjectivity / float64(s.TotalMessages)
	}

	return s
}

// ClassPercentage returns the share of messages in the given class,
// in [0, 100]. Zero when there are no messages.
func (s Summary) ClassPercentage(class sentiment.Class) float64 {
	if s.TotalMessages == 0 {
		return 0
	}
	return float64(s.SentimentCounts[class]) / float64(s.TotalMessages) * 100
}

// NonAbusiveCount returns the complement of AbusiveCount.
func (s Summary) NonAbusiveCount() int {
	return s.TotalMessages - s.AbusiveCount
}
