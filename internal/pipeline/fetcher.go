package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/retry"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

const acceptHeader = "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8"

// Fetcher fetches page content from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	timeout    time.Duration
	retry      retry.Policy
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewFetcher creates a new Fetcher. The limiter may be nil.
func NewFetcher(cfg model.HTTPConfig, policy retry.Policy, limiter *worker.Limiter) *Fetcher {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 5_000_000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		timeout:    timeout,
		retry:      policy,
		limiter:    limiter,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, &http.Client{Timeout: timeout}, util.DefaultRobotsTTL)
	}
	return f
}

// FetchResult contains the fetched body and metadata
type FetchResult struct {
	Body        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves the URL, honoring robots.txt and the rate limiter once,
// then retrying transient failures per policy
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if err := f.admit(ctx, rawURL); err != nil {
		return nil, err
	}

	var result *FetchResult
	err := retry.Do(ctx, f.retry, func(ctx context.Context) error {
		r, err := f.get(ctx, rawURL)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Fetcher) admit(ctx context.Context, rawURL string) error {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}
	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
		if retry.StatusRetryable(resp.StatusCode) {
			return nil, &retry.RetryableError{StatusCode: resp.StatusCode, Err: err}
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
