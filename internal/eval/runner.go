package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/score"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// Checker takes a single claim through the pipeline
type Checker interface {
	CheckClaim(ctx context.Context, claim string) model.ClaimResult
}

// Result is the outcome of one dataset row
type Result struct {
	TestID         RowID       `json:"test_id"`
	Claim          string      `json:"claim"`
	ExpectedLabel  model.Label `json:"expected_label"`
	PredictedLabel model.Label `json:"predicted_label,omitempty"`
	Outcome        string      `json:"outcome,omitempty"`
	Evidence       string      `json:"evidence,omitempty"`
	IsCorrect      bool        `json:"is_correct"`
	ProcessingTime float64     `json:"processing_time"` // Seconds
	Error          string      `json:"error,omitempty"`
	Optimized      string      `json:"optimized,omitempty"`
	ArticleQuery   string      `json:"article_query,omitempty"`
	URLs           []string    `json:"urls"`
}

// Report is the full evaluation output
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Summary   score.Summary `json:"summary"`
	Results   []Result      `json:"results"`
}

// Runner evaluates dataset rows with a bounded worker pool
type Runner struct {
	checker     Checker
	concurrency int
	scorer      *score.Scorer
	progress    io.Writer
	mu          sync.Mutex
}

// NewRunner creates a runner. Per-row progress lines go to progress.
func NewRunner(checker Checker, concurrency int, progress io.Writer) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{
		checker:     checker,
		concurrency: concurrency,
		scorer:      score.NewScorer(),
		progress:    progress,
	}
}

// Run evaluates the first maxTests rows (all when maxTests <= 0). Results
// keep dataset order.
func (r *Runner) Run(ctx context.Context, rows []Row, maxTests int) *Report {
	if maxTests > 0 && maxTests < len(rows) {
		rows = rows[:maxTests]
	}

	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	var done int
	report.Results = worker.Map(ctx, r.concurrency, rows, func(ctx context.Context, i int, row Row) Result {
		res := r.evaluate(ctx, row)

		r.mu.Lock()
		done++
		r.printProgress(done, len(rows), res)
		r.mu.Unlock()
		return res
	})

	samples := make([]score.Sample, len(report.Results))
	for i, res := range report.Results {
		samples[i] = score.Sample{
			Expected:  res.ExpectedLabel,
			Predicted: res.PredictedLabel,
			Errored:   res.Error != "",
			Duration:  time.Duration(res.ProcessingTime * float64(time.Second)),
		}
	}
	report.Summary = r.scorer.Calculate(samples)
	return report
}

func (r *Runner) evaluate(ctx context.Context, row Row) Result {
	res := Result{
		TestID:        row.ID,
		Claim:         row.Claim,
		ExpectedLabel: row.ExpectedLabel,
		URLs:          []string{},
	}
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	cr := r.checker.CheckClaim(ctx, row.Claim)
	res.Optimized = cr.Optimized
	res.ArticleQuery = cr.ArticleQuery
	if cr.URLs != nil {
		res.URLs = cr.URLs
	}
	res.ProcessingTime = cr.Timing.Total.Seconds()
	res.Error = cr.Error

	if cr.Verdict != nil {
		res.PredictedLabel = cr.Verdict.Label
		res.Evidence = cr.Verdict.Evidence
		res.Outcome = string(cr.Verdict.Outcome())
		res.IsCorrect = res.PredictedLabel == res.ExpectedLabel
	}
	return res
}

func (r *Runner) printProgress(done, total int, res Result) {
	predicted := string(res.PredictedLabel)
	if predicted == "" {
		predicted = "None"
	}
	fmt.Fprintf(r.progress, "[%d/%d] test %s: expected %s, predicted %s, correct %t (%.2fs)\n",
		done, total, res.TestID, res.ExpectedLabel, predicted, res.IsCorrect, res.ProcessingTime)
	if res.Error != "" {
		fmt.Fprintf(r.progress, "  error: %s\n", res.Error)
	}
}

// PrintResults writes the summary and a per-row table
func PrintResults(w io.Writer, report *Report) {
	s := report.Summary
	fmt.Fprintf(w, "\n═══ Evaluation Results ═══\n")
	fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(w, "Total Tests: %d\n", s.TotalTests)
	fmt.Fprintf(w, "Correct: %d\n", s.CorrectTests)
	fmt.Fprintf(w, "Accuracy: %.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Errors: %d\n", s.ErrorCount)
	fmt.Fprintf(w, "Average Processing Time: %.2fs\n", s.AvgProcessingTime)
	fmt.Fprintf(w, "Confidence: %s\n", s.Confidence)

	fmt.Fprintf(w, "\nPer-Label Accuracy:\n")
	fmt.Fprintf(w, "True Claims: %d/%d (%.2f%%)\n", s.TrueCorrectCount, s.TrueExpectedCount, s.TrueAccuracy*100)
	fmt.Fprintf(w, "False Claims: %d/%d (%.2f%%)\n", s.FalseCorrectCount, s.FalseExpectedCount, s.FalseAccuracy*100)

	fmt.Fprintf(w, "\nDetailed Results:\n")
	fmt.Fprintf(w, "%-6s %-8s %-10s %-8s %-8s %s\n", "ID", "Expected", "Predicted", "Correct", "Time", "Error")
	for _, res := range report.Results {
		predicted := string(res.PredictedLabel)
		if predicted == "" {
			predicted = "None"
		}
		fmt.Fprintf(w, "%-6s %-8s %-10s %-8t %-8s %s\n",
			res.TestID, res.ExpectedLabel, predicted, res.IsCorrect,
			fmt.Sprintf("%.2fs", res.ProcessingTime), truncate(res.Error, 20))
	}
}

// WriteJSON saves the report as {"run_id", "started_at", "summary", "results"}
func WriteJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal eval report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write eval report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
