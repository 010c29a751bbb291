package summary

import (
	"math"
	"testing"

	"github.com/forensiq/abusescan/pkg/abusescan/pipeline"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
)

func row(abusive bool, polarity, subjectivity float64, class sentiment.Class) pipeline.AnalyzedRecord {
	return pipeline.AnalyzedRecord{
		IsAbusive:    abusive,
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Class:        class,
	}
}

func TestSummarizeTotals(t *testing.T) {
	rows := []pipeline.AnalyzedRecord{
		row(true, -0.8, 0.9, sentiment.ClassNegative),
		row(false, 0.85, 1.0, sentiment.ClassPositive),
		row(true, -0.7, 0.6, sentiment.ClassNegative),
		row(false, 0.4, 0.5, sentiment.ClassPositive),
		row(true, -0.6, 0.4, sentiment.ClassNegative),
	}

	s := Summarize(rows)

	if s.TotalMessages != 5 {
		t.Errorf("TotalMessages = %d", s.TotalMessages)
	}
	if s.AbusiveCount != 3 {
		t.Errorf("AbusiveCount = %d", s.AbusiveCount)
	}
	if s.AbusivePercentage != 60.0 {
		t.Errorf("AbusivePercentage = %v, want 60.0", s.AbusivePercentage)
	}
	if s.AbusiveCount+s.NonAbusiveCount() != s.TotalMessages {
		t.Error("abusive + non-abusive != total")
	}

	classTotal := 0
	for _, count := range s.SentimentCounts {
		classTotal += count
	}
	if classTotal != s.TotalMessages {
		t.Errorf("sentiment counts sum to %d, want %d", classTotal, s.TotalMessages)
	}

	wantPolarity := (-0.8 + 0.85 - 0.7 + 0.4 - 0.6) / 5
	if math.Abs(s.AvgPolarity-wantPolarity) > 1e-12 {
		t.Errorf("AvgPolarity = %v, want %v", s.AvgPolarity, wantPolarity)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if s.TotalMessages != 0 {
		t.Errorf("TotalMessages = %d", s.TotalMessages)
	}
	if s.AbusivePercentage != 0 {
		t.Errorf("empty table abusive percentage must be 0, got %v", s.AbusivePercentage)
	}
	// Means over an empty table are defined as 0.0, never NaN.
	if s.AvgPolarity != 0 || s.AvgSubjectivity != 0 {
		t.Errorf("empty table means must be 0.0, got %v/%v", s.AvgPolarity, s.AvgSubjectivity)
	}
	if math.IsNaN(s.AvgPolarity) || math.IsNaN(s.AvgSubjectivity) {
		t.Error("empty table means must not be NaN")
	}
	if len(s.SentimentCounts) != 0 {
		t.Errorf("empty table should have no sentiment counts, got %v", s.SentimentCounts)
	}
}

func TestSummarizeOmitsZeroClasses(t *testing.T) {
	rows := []pipeline.AnalyzedRecord{
		row(false, 0.9, 0.5, sentiment.ClassPositive),
		row(false, 0.8, 0.5, sentiment.ClassPositive),
	}

	s := Summarize(rows)

	if _, present := s.SentimentCounts[sentiment.ClassNegative]; present {
		t.Error("zero-count class must be absent from the mapping, not present with 0")
	}
	if _, present := s.SentimentCounts[sentiment.ClassNeutral]; present {
		t.Error("zero-count class must be absent from the mapping, not present with 0")
	}
	if s.SentimentCounts[sentiment.ClassPositive] != 2 {
		t.Errorf("Positive count = %d", s.SentimentCounts[sentiment.ClassPositive])
	}
}

func TestClassPercentage(t *testing.T) {
	rows := []pipeline.AnalyzedRecord{
		row(false, -0.5, 0.5, sentiment.ClassNegative),
		row(false, 0.5, 0.5, sentiment.ClassPositive),
		row(false, 0.6, 0.5, sentiment.ClassPositive),
		row(false, 0.7, 0.5, sentiment.ClassPositive),
	}
	s := Summarize(rows)

	if got := s.ClassPercentage(sentiment.ClassPositive); got != 75.0 {
		t.Errorf("ClassPercentage(Positive) = %v", got)
	}
	if got := s.ClassPercentage(sentiment.ClassNeutral); got != 0 {
		t.Errorf("ClassPercentage(Neutral) = %v", got)
	}

	var empty Summary
	if got := empty.ClassPercentage(sentiment.ClassPositive); got != 0 {
		t.Errorf("empty summary percentage = %v", got)
	}
}
