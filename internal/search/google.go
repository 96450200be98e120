// Package search locates source articles for claims through a web search API.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ppiankov/claimcheck/internal/logger"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/retry"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// DefaultEndpoint is the Custom Search JSON API root
const DefaultEndpoint = "https://customsearch.googleapis.com/"

// maxResults is the API's per-request ceiling for num
const maxResults = 10

// Searcher returns up to n result links for a query, or nil when there are none
type Searcher interface {
	Search(ctx context.Context, query string, n int) []string
}

// Config configures the Custom Search client
type Config struct {
	APIKey   string
	EngineID string
	Endpoint string
	Timeout  time.Duration
	Retry    retry.Policy

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel builds the search client configuration
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		APIKey:     cfg.Search.APIKey,
		EngineID:   cfg.Search.EngineID,
		Endpoint:   cfg.Search.Endpoint,
		Timeout:    cfg.Search.Timeout,
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

// CustomSearch queries the Google Custom Search JSON API
type CustomSearch struct {
	service *customsearch.Service
	config  Config
	limiter *worker.Limiter
}

// NewCustomSearch creates a Custom Search client. The limiter may be nil.
func NewCustomSearch(ctx context.Context, config Config, limiter *worker.Limiter) (*CustomSearch, error) {
	if config.APIKey == "" || config.EngineID == "" {
		return nil, errors.New("custom search API key and engine ID are required")
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	// The API key travels as a query parameter; a custom HTTP client
	// disables the library's own credential handling.
	service, err := customsearch.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(config.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}

	return &CustomSearch{
		service: service,
		config:  config,
		limiter: limiter,
	}, nil
}

// Search returns the first n links for query. Zero items and failed
// calls both yield nil; failures are logged.
func (c *CustomSearch) Search(ctx context.Context, query string, n int) []string {
	if n < 1 {
		n = 1
	}
	if n > maxResults {
		n = maxResults
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.config.Endpoint); err != nil {
			logger.Error("search rate limit wait: %v", err)
			return nil
		}
	}

	var result *customsearch.Search
	err := retry.Do(ctx, c.config.Retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		res, err := c.service.Cse.List().
			Cx(c.config.EngineID).
			Q(query).
			Num(int64(n)).
			Context(callCtx).
			Do(googleapi.QueryParameter("key", c.config.APIKey))
		if err != nil {
			return classify(err)
		}
		result = res
		return nil
	})
	if err != nil {
		logger.Error("search request for %q failed: %v", query, err)
		return nil
	}

	if result == nil || len(result.Items) == 0 {
		logger.Debug("search for %q returned no items", query)
		return nil
	}

	urls := make([]string, 0, n)
	for _, item := range result.Items {
		if item == nil || item.Link == "" {
			continue
		}
		urls = append(urls, item.Link)
		if len(urls) == n {
			break
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}

// classify marks quota and server errors as retryable
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && retry.StatusRetryable(gerr.Code) {
		return &retry.RetryableError{StatusCode: gerr.Code, Err: err}
	}
	return err
}
