package extract

import (
	"context"
	"strings"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/logger"
)

// OptimizeFailed is returned by Optimize when no rewrite could be produced
const OptimizeFailed = "Failed to optimize claim"

// Optimizer rewrites a claim so it can be checked without outside context
type Optimizer struct {
	provider llm.Provider
	model    string
}

// NewOptimizer creates a new claim optimizer
func NewOptimizer(provider llm.Provider, model string) *Optimizer {
	return &Optimizer{
		provider: provider,
		model:    model,
	}
}

// Optimize returns the rewritten claim, or OptimizeFailed
func (o *Optimizer) Optimize(ctx context.Context, claim string) string {
	text, err := llm.Text(ctx, o.provider, o.model, llm.OptimizeClaimPrompt(claim))
	if err != nil {
		logger.Error("claim optimization failed: %v", err)
		return OptimizeFailed
	}
	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" {
		return OptimizeFailed
	}
	return text
}
