package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/retry"
)

// ErrEmptyResponse is returned when a provider answers with no text
var ErrEmptyResponse = errors.New("empty response from model")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt-in, text-out call
type CompletionRequest struct {
	// Prompt is the full user prompt
	Prompt string

	// Model overrides the provider's default model
	Model string

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// CompletionResponse contains the model's output
type CompletionResponse struct {
	// Text is the trimmed model output
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name used when a request does not name one
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (OpenAI-compatible servers, Ollama)
	BaseURL string

	// Timeout bounds a single call
	Timeout time.Duration

	// MaxTokens for response generation (0 = provider default)
	MaxTokens int

	// Retry policy applied around each call
	Retry retry.Policy

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Timeout:  60 * time.Second,
		Retry:    retry.Single,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return c.MaxTokens
}

// Text runs a completion and returns only the text, treating an empty
// answer as ErrEmptyResponse.
func Text(ctx context.Context, p Provider, model, prompt string) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{Prompt: prompt, Model: model})
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Text == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text, nil
}

// withRetry runs call under the configured retry policy
func withRetry(ctx context.Context, policy retry.Policy, call func(ctx context.Context) (*CompletionResponse, error)) (*CompletionResponse, error) {
	var resp *CompletionResponse
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		r, err := call(ctx)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
		Retry: retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		},
	}
}
