package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/claimcheck/internal/logger"
	"github.com/ppiankov/claimcheck/internal/retry"
	"github.com/ppiankov/claimcheck/internal/util"
)

// OpenAIProvider implements the Provider interface for OpenAI models and
// any server that speaks the OpenAI chat completions protocol.
type OpenAIProvider struct {
	client *openai.Client
	config Config
	local  bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	local := config.BaseURL != ""
	if config.APIKey == "" && !local {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if local {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		local:  local,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		logger.Warn("OpenAI API check failed: %v", err)
		return false
	}
	return true
}

// Complete sends the prompt as a single user message
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = "gpt-5-nano"
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
	}
	// Reasoning models reject max_tokens; local servers usually only know it
	if n := p.config.maxTokens(req); n > 0 {
		if p.local {
			chatReq.MaxTokens = n
		} else {
			chatReq.MaxCompletionTokens = n
		}
	}

	return withRetry(ctx, p.config.Retry, func(ctx context.Context) (*CompletionResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, p.config.timeout())
		defer cancel()

		resp, err := p.client.CreateChatCompletion(callCtx, chatReq)
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", classifyOpenAIError(err))
		}
		if len(resp.Choices) == 0 {
			return nil, ErrEmptyResponse
		}

		return &CompletionResponse{
			Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
			Model:      resp.Model,
			TokensUsed: resp.Usage.TotalTokens,
		}, nil
	})
}

// classifyOpenAIError marks rate limiting and server errors as retryable
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && retry.StatusRetryable(apiErr.HTTPStatusCode) {
		return &retry.RetryableError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && retry.StatusRetryable(reqErr.HTTPStatusCode) {
		return &retry.RetryableError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
