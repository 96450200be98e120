package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/claimcheck/internal/llm/llmtest"
)

func TestOptimizer_Optimize(t *testing.T) {
	mock := (&llmtest.MockProvider{}).On("Claim: It is 330 metres tall", `"The Eiffel Tower is 330 metres tall."`)
	optimizer := NewOptimizer(mock, "gpt-5-mini")

	got := optimizer.Optimize(context.Background(), "It is 330 metres tall")
	if got != "The Eiffel Tower is 330 metres tall." {
		t.Errorf("Unexpected optimized claim: %q", got)
	}
	if calls := mock.Calls(); calls[0].Model != "gpt-5-mini" {
		t.Errorf("Expected gpt-5-mini, got %s", calls[0].Model)
	}
}

func TestOptimizer_FailureSentinel(t *testing.T) {
	for _, reply := range []llmtest.Reply{{Err: errors.New("down")}, {Text: ""}, {Text: `""`}} {
		optimizer := NewOptimizer(&llmtest.MockProvider{Default: reply}, "m")
		if got := optimizer.Optimize(context.Background(), "claim"); got != OptimizeFailed {
			t.Errorf("Expected OptimizeFailed for %+v, got %q", reply, got)
		}
	}
}
