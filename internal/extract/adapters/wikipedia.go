package adapters

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WikipediaAdapter extracts article text from Wikipedia pages
type WikipediaAdapter struct {
	BaseAdapter
}

// NewWikipediaAdapter creates a new Wikipedia adapter
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (a *WikipediaAdapter) CanHandle(rawURL string, contentType string) bool {
	return IsWikipedia(rawURL)
}

// ExtractBlocks scopes to the article body when present, else the whole page
func (a *WikipediaAdapter) ExtractBlocks(doc *goquery.Document, rawURL string) ([]string, error) {
	scope := a.MediaWikiContent(doc)
	if scope.Length() == 0 {
		scope = doc.Selection
	}
	return a.Blocks(scope), nil
}

// IsWikipedia reports whether rawURL points at a *.wikipedia.org host
func IsWikipedia(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org")
}
