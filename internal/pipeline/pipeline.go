package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/logger"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/retry"
	"github.com/ppiankov/claimcheck/internal/search"
	"github.com/ppiankov/claimcheck/internal/verify"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// Per-claim failure messages printed to the console
const (
	MsgNoURL        = "No URL found from search"
	MsgScrapeFailed = "Failed to scrape content from the URL"
	MsgVerifyFailed = "Failed to get response"
	errNoURL        = "no URL found"
	errScrapeFailed = "scrape failed"
	errVerifyFailed = "verification failed"
)

// ErrProviderUnavailable is returned by Preflight when the LLM provider
// cannot be reached or is not configured
var ErrProviderUnavailable = errors.New("LLM provider is not available")

// Pipeline runs extract → optimize → locate → scrape → verify → report,
// one claim at a time
type Pipeline struct {
	provider  llm.Provider
	extractor *extract.ClaimExtractor
	optimizer *extract.Optimizer
	locator   *search.Locator
	scraper   *Scraper
	verifier  *verify.Verifier
	reporter  *Reporter
	config    *model.Config
}

// NewPipeline wires the stages from configuration. Console output goes to out.
func NewPipeline(cfg *model.Config, provider llm.Provider, searcher search.Searcher, out io.Writer) *Pipeline {
	policy := RetryPolicy(cfg)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := NewFetcher(cfg.HTTP, policy, limiter)

	return &Pipeline{
		provider:  provider,
		extractor: extract.NewClaimExtractor(provider, cfg.LLM.Models.Extract),
		optimizer: extract.NewOptimizer(provider, cfg.LLM.Models.Optimize),
		locator:   search.NewLocator(provider, cfg.LLM.Models.Locate, searcher),
		scraper:   NewScraper(fetcher, extract.NewContentExtractor(), cfg.Scrape.WikipediaREST, cfg.Scrape.RESTBaseURL),
		verifier:  verify.NewVerifier(provider, cfg.LLM.Models.Verify, cfg.Verify.MaxContentChars),
		reporter:  NewReporter(out),
		config:    cfg,
	}
}

// RetryPolicy converts the configured retry settings
func RetryPolicy(cfg *model.Config) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}
}

// Reporter returns the console reporter
func (p *Pipeline) Reporter() *Reporter {
	return p.reporter
}

// Preflight checks that the LLM provider answers before any claim is
// processed
func (p *Pipeline) Preflight(ctx context.Context) error {
	if !p.provider.IsAvailable(ctx) {
		return fmt.Errorf("%s: %w", p.provider.Name(), ErrProviderUnavailable)
	}
	return nil
}

// Check runs the whole pipeline for one query. Per-claim failures are
// reported and recorded; only cancellation of ctx stops the loop early.
func (p *Pipeline) Check(ctx context.Context, query string) (*model.RunReport, error) {
	start := time.Now()
	report := &model.RunReport{
		Query:     query,
		StartedAt: start.UTC(),
		Claims:    []string{},
		Results:   []model.ClaimResult{},
	}

	p.reporter.Query(query)

	claims := p.extractor.Extract(ctx, query)
	report.ExtractTime = time.Since(start)
	for _, c := range claims {
		report.Claims = append(report.Claims, c.Text)
	}
	p.reporter.Claims(report.Claims)

	for _, claim := range claims {
		if err := ctx.Err(); err != nil {
			report.TotalTime = time.Since(start)
			return report, err
		}
		report.Results = append(report.Results, p.CheckClaim(ctx, claim.Text))
	}

	report.TotalTime = time.Since(start)
	p.reporter.Summary(report)
	return report, nil
}

// CheckClaim takes one claim through optimize, locate, scrape and verify
func (p *Pipeline) CheckClaim(ctx context.Context, claim string) model.ClaimResult {
	claimStart := time.Now()
	result := model.ClaimResult{Claim: claim, Checked: claim}

	p.reporter.ClaimStart(claim)

	if p.config.Pipeline.Optimize {
		t := time.Now()
		optimized := p.optimizer.Optimize(ctx, claim)
		result.Timing.Optimize = time.Since(t)
		result.Optimized = optimized
		p.reporter.Optimized(optimized)
		if p.config.Pipeline.UseOptimized && optimized != extract.OptimizeFailed {
			result.Checked = optimized
		}
	}

	t := time.Now()
	articleQuery, urls := p.locator.Locate(ctx, result.Checked, p.config.Search.TopN)
	result.Timing.Locate = time.Since(t)
	result.ArticleQuery = articleQuery
	result.URLs = urls
	p.reporter.Article(articleQuery)
	p.reporter.URLs(urls)

	if len(urls) == 0 {
		p.reporter.Message(MsgNoURL)
		result.Error = errNoURL
		result.Timing.Total = time.Since(claimStart)
		return result
	}
	result.SourceURL = urls[0]

	p.reporter.Scraping()
	t = time.Now()
	content, err := p.scraper.Scrape(ctx, result.SourceURL)
	result.Timing.Scrape = time.Since(t)
	if err != nil || content == "" {
		if err == nil {
			err = extract.ErrNoContent
		}
		logger.Error("scraping failed: %v", err)
		p.reporter.Message(MsgScrapeFailed)
		result.Error = errScrapeFailed + ": " + err.Error()
		result.Timing.Total = time.Since(claimStart)
		return result
	}
	result.ContentChars = len(content)

	t = time.Now()
	verdict, err := p.verifier.Verify(ctx, content, result.Checked)
	result.Timing.Verify = time.Since(t)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("%v", err)
		}
		p.reporter.Message(MsgVerifyFailed)
		result.Error = errVerifyFailed + ": " + err.Error()
		result.Link = result.SourceURL
		p.reporter.Link(result.Link)
		result.Timing.Total = time.Since(claimStart)
		return result
	}

	result.Verdict = &verdict
	result.Link = TextFragmentLink(result.SourceURL, verdict.Evidence)
	p.reporter.Verdict(verdict)
	p.reporter.Link(result.Link)

	result.Timing.Total = time.Since(claimStart)
	return result
}
