package search

import (
	"context"
	"strings"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/logger"
)

// Locator finds the article most likely to settle a claim: the model
// names a Wikipedia article, then the search API resolves it to URLs.
type Locator struct {
	provider llm.Provider
	model    string
	searcher Searcher
}

// NewLocator creates a new article locator
func NewLocator(provider llm.Provider, model string, searcher Searcher) *Locator {
	return &Locator{
		provider: provider,
		model:    model,
		searcher: searcher,
	}
}

// ArticleTitle asks the model for the article title, or "" on failure
func (l *Locator) ArticleTitle(ctx context.Context, claim string) string {
	text, err := llm.Text(ctx, l.provider, l.model, llm.ArticleTitlePrompt(claim))
	if err != nil {
		logger.Error("article title lookup failed: %v", err)
		return ""
	}
	return strings.Trim(strings.TrimSpace(text), `"`)
}

// Locate returns the search query used and up to n candidate URLs.
// An empty title skips the search and returns nil URLs.
func (l *Locator) Locate(ctx context.Context, claim string, n int) (string, []string) {
	title := l.ArticleTitle(ctx, claim)
	if title == "" {
		return "", nil
	}
	return title, l.searcher.Search(ctx, title, n)
}
