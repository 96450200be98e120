// Package score computes accuracy metrics for evaluation runs.
package score

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Sample is one evaluated row
type Sample struct {
	Expected  model.Label
	Predicted model.Label // Empty when the pipeline produced no verdict
	Errored   bool
	Duration  time.Duration
}

// Correct reports whether the prediction matches the expected label
func (s Sample) Correct() bool {
	return s.Predicted != "" && s.Predicted == s.Expected
}

// Summary holds the aggregate metrics of an evaluation run
type Summary struct {
	TotalTests         int     `json:"total_tests"`
	CorrectTests       int     `json:"correct_tests"`
	Accuracy           float64 `json:"accuracy"`
	TrueExpectedCount  int     `json:"true_expected_count"`
	TrueCorrectCount   int     `json:"true_correct_count"`
	TrueAccuracy       float64 `json:"true_accuracy"`
	FalseExpectedCount int     `json:"false_expected_count"`
	FalseCorrectCount  int     `json:"false_correct_count"`
	FalseAccuracy      float64 `json:"false_accuracy"`
	ErrorCount         int     `json:"error_count"`
	AvgProcessingTime  float64 `json:"avg_processing_time"` // Seconds
	Confidence         string  `json:"confidence"`
}

// Scorer aggregates evaluation samples
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes overall and per-label accuracy, the error count and
// the mean processing time
func (s *Scorer) Calculate(samples []Sample) Summary {
	summary := Summary{TotalTests: len(samples)}

	var totalTime time.Duration
	timed := 0
	for _, sample := range samples {
		correct := sample.Correct()
		if correct {
			summary.CorrectTests++
		}

		switch sample.Expected {
		case model.LabelTrue:
			summary.TrueExpectedCount++
			if correct {
				summary.TrueCorrectCount++
			}
		case model.LabelFalse:
			summary.FalseExpectedCount++
			if correct {
				summary.FalseCorrectCount++
			}
		}

		if sample.Errored {
			summary.ErrorCount++
		}
		if sample.Duration > 0 {
			totalTime += sample.Duration
			timed++
		}
	}

	summary.Accuracy = ratio(summary.CorrectTests, summary.TotalTests)
	summary.TrueAccuracy = ratio(summary.TrueCorrectCount, summary.TrueExpectedCount)
	summary.FalseAccuracy = ratio(summary.FalseCorrectCount, summary.FalseExpectedCount)
	if timed > 0 {
		summary.AvgProcessingTime = (totalTime / time.Duration(timed)).Seconds()
	}
	summary.Confidence = s.determineConfidence(summary)

	return summary
}

// determineConfidence grades how much the accuracy figure can be trusted:
// small samples or a high error rate make it less meaningful
func (s *Scorer) determineConfidence(summary Summary) string {
	if summary.TotalTests == 0 {
		return "none"
	}
	errorRate := ratio(summary.ErrorCount, summary.TotalTests)

	switch {
	case summary.TotalTests >= 30 && errorRate <= 0.1:
		return "high"
	case summary.TotalTests >= 10 && errorRate <= 0.3:
		return "medium"
	default:
		return "low"
	}
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
