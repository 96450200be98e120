package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/model"
)

type fakeChecker struct {
	mu      sync.Mutex
	results map[string]model.ClaimResult
	seen    []string
}

func (f *fakeChecker) CheckClaim(ctx context.Context, claim string) model.ClaimResult {
	f.mu.Lock()
	f.seen = append(f.seen, claim)
	f.mu.Unlock()

	if res, ok := f.results[claim]; ok {
		res.Claim = claim
		return res
	}
	return model.ClaimResult{Claim: claim, Error: "no URL found"}
}

func verdict(label model.Label) *model.Verdict {
	return &model.Verdict{Label: label, Evidence: "evidence", Parsed: true}
}

func testRows() []Row {
	return []Row{
		{ID: "1", Claim: "claim one", ExpectedLabel: model.LabelTrue},
		{ID: "2", Claim: "claim two", ExpectedLabel: model.LabelFalse},
		{ID: "3", Claim: "claim three", ExpectedLabel: model.LabelFalse},
		{ID: "4", Claim: "claim four", ExpectedLabel: model.LabelTrue},
	}
}

func testChecker() *fakeChecker {
	return &fakeChecker{results: map[string]model.ClaimResult{
		"claim one": {
			Verdict:      verdict(model.LabelTrue),
			ArticleQuery: "One",
			URLs:         []string{"https://en.wikipedia.org/wiki/One"},
			Timing:       model.Timing{Total: 2 * time.Second},
		},
		"claim two": {
			Verdict: verdict(model.LabelTrue),
			Timing:  model.Timing{Total: time.Second},
		},
		"claim three": {
			Verdict: verdict(model.LabelFalse),
			Timing:  model.Timing{Total: 3 * time.Second},
		},
	}}
}

func TestRunner_Run(t *testing.T) {
	var progress bytes.Buffer
	runner := NewRunner(testChecker(), 1, &progress)

	report := runner.Run(context.Background(), testRows(), 0)

	_, err := uuid.Parse(report.RunID)
	assert.NoError(t, err, "run id should be a UUID")
	require.Len(t, report.Results, 4)

	assert.True(t, report.Results[0].IsCorrect)
	assert.Equal(t, "One", report.Results[0].ArticleQuery)
	assert.Equal(t, "supported", report.Results[0].Outcome)
	assert.False(t, report.Results[1].IsCorrect)
	assert.True(t, report.Results[2].IsCorrect)
	assert.Equal(t, "no URL found", report.Results[3].Error)
	assert.Equal(t, model.Label(""), report.Results[3].PredictedLabel)
	assert.NotNil(t, report.Results[3].URLs)

	s := report.Summary
	assert.Equal(t, 4, s.TotalTests)
	assert.Equal(t, 2, s.CorrectTests)
	assert.InDelta(t, 0.5, s.Accuracy, 1e-9)
	assert.Equal(t, 1, s.ErrorCount)
	assert.InDelta(t, 2.0, s.AvgProcessingTime, 1e-9)

	assert.Contains(t, progress.String(), "[4/4] test 4")
}

func TestRunner_MaxTests(t *testing.T) {
	checker := testChecker()
	report := NewRunner(checker, 1, nil).Run(context.Background(), testRows(), 2)

	assert.Len(t, report.Results, 2)
	assert.Equal(t, []string{"claim one", "claim two"}, checker.seen)
}

func TestRunner_ConcurrentKeepsOrder(t *testing.T) {
	report := NewRunner(testChecker(), 3, nil).Run(context.Background(), testRows(), 0)

	require.Len(t, report.Results, 4)
	for i, res := range report.Results {
		assert.Equal(t, testRows()[i].ID, res.TestID)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewRunner(testChecker(), 2, nil).Run(ctx, testRows(), 0)

	require.Len(t, report.Results, 4)
	for _, res := range report.Results {
		assert.Equal(t, context.Canceled.Error(), res.Error)
	}
	assert.Equal(t, 4, report.Summary.ErrorCount)
}

func TestPrintResults(t *testing.T) {
	report := NewRunner(testChecker(), 1, nil).Run(context.Background(), testRows(), 0)

	var out bytes.Buffer
	PrintResults(&out, report)

	assert.Contains(t, out.String(), "Accuracy: 50.00%")
	assert.Contains(t, out.String(), "True Claims: 1/2 (50.00%)")
	assert.Contains(t, out.String(), "False Claims: 1/2 (50.00%)")
	assert.Contains(t, out.String(), "None")
}

func TestWriteJSON(t *testing.T) {
	report := NewRunner(testChecker(), 1, nil).Run(context.Background(), testRows(), 0)
	path := filepath.Join(t.TempDir(), "eval.json")

	require.NoError(t, WriteJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "results")
	summary := decoded["summary"].(map[string]any)
	assert.InDelta(t, 0.5, summary["accuracy"], 1e-9)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "Failed to scrape ...", truncate("Failed to scrape content from the URL", 20))
}
