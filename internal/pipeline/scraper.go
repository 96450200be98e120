package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/extract/adapters"
	"github.com/ppiankov/claimcheck/internal/logger"
)

// Scraper turns an article URL into plain text. Wikipedia articles are
// read through the REST API first (plain text, then mobile HTML); any
// other URL, or a REST miss, falls back to fetching the page itself.
type Scraper struct {
	fetcher     *Fetcher
	extractor   *extract.ContentExtractor
	useREST     bool
	restBaseURL string
}

// NewScraper creates a scraper. restBaseURL overrides
// https://<wiki host>/api/rest_v1 when non-empty.
func NewScraper(fetcher *Fetcher, extractor *extract.ContentExtractor, useREST bool, restBaseURL string) *Scraper {
	return &Scraper{
		fetcher:     fetcher,
		extractor:   extractor,
		useREST:     useREST,
		restBaseURL: strings.TrimSuffix(restBaseURL, "/"),
	}
}

// Scrape returns the article text for pageURL
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	if s.useREST {
		if base, title, ok := s.restTarget(pageURL); ok {
			if text := s.restPlain(ctx, base, title); text != "" {
				return text, nil
			}
			if text := s.restMobileHTML(ctx, base, title, pageURL); text != "" {
				return text, nil
			}
		}
	}

	result, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	text, err := s.extractor.Extract(result.Body, result.FinalURL)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	return text, nil
}

func (s *Scraper) restPlain(ctx context.Context, base, title string) string {
	result, err := s.fetcher.Fetch(ctx, base+"/page/plain/"+title)
	if err != nil {
		logger.Debug("REST plain text for %s unavailable: %v", title, err)
		return ""
	}
	return strings.TrimSpace(result.Body)
}

func (s *Scraper) restMobileHTML(ctx context.Context, base, title, pageURL string) string {
	result, err := s.fetcher.Fetch(ctx, base+"/page/mobile-html/"+title)
	if err != nil {
		logger.Debug("REST mobile-html for %s unavailable: %v", title, err)
		return ""
	}
	text, err := s.extractor.Extract(result.Body, pageURL)
	if err != nil {
		logger.Debug("REST mobile-html for %s yielded no text: %v", title, err)
		return ""
	}
	return text
}

// restTarget returns the REST base and escaped title for a /wiki/<title>
// Wikipedia URL
func (s *Scraper) restTarget(pageURL string) (string, string, bool) {
	if !adapters.IsWikipedia(pageURL) {
		return "", "", false
	}
	title := WikiTitle(pageURL)
	if title == "" {
		return "", "", false
	}

	base := s.restBaseURL
	if base == "" {
		u, _ := url.Parse(pageURL)
		base = "https://" + u.Host + "/api/rest_v1"
	}
	return base, url.PathEscape(title), true
}

// WikiTitle extracts the unescaped article title from a /wiki/<title> URL,
// dropping any fragment or query. It returns "" for other paths.
func WikiTitle(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] != "wiki" || parts[1] == "" {
		return ""
	}
	return parts[1]
}
