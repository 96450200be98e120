package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/logger"
	"github.com/ppiankov/claimcheck/internal/model"
)

// ClaimExtractor asks the model for the fact-checkable claims in a query
type ClaimExtractor struct {
	provider llm.Provider
	model    string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider, model string) *ClaimExtractor {
	return &ClaimExtractor{
		provider: provider,
		model:    model,
	}
}

// Extract returns the claims found in query. Model failures and
// unparseable answers are logged and yield an empty slice.
func (e *ClaimExtractor) Extract(ctx context.Context, query string) []model.Claim {
	text, err := llm.Text(ctx, e.provider, e.model, llm.ExtractClaimsPrompt(query))
	if err != nil {
		logger.Error("claim extraction failed: %v", err)
		return nil
	}

	claims, err := ParseClaims(text)
	if err != nil {
		logger.Error("claim extraction returned unparseable output: %v", err)
		return nil
	}
	return claims
}

// ParseClaims decodes a JSON array of strings, tolerating a surrounding
// code fence or prose around the array. Blank and non-string entries are
// dropped.
func ParseClaims(text string) ([]model.Claim, error) {
	body := llm.StripCodeFence(text)

	var items []any
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		embedded := llm.FindJSONArray(body)
		if embedded == "" {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embedded), &items); err != nil {
			return nil, err
		}
	}

	claims := make([]model.Claim, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			claims = append(claims, model.Claim{Text: s})
		}
	}
	return claims, nil
}
