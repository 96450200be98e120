package adapters

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// GenericAdapter is the fallback adapter for unknown domains
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string, contentType string) bool {
	return true
}

// ExtractBlocks picks the narrowest scope that yields text: a MediaWiki
// article body (mirrors, REST mobile-html), then the readability main
// content, then the whole document.
func (a *GenericAdapter) ExtractBlocks(doc *goquery.Document, rawURL string) ([]string, error) {
	if scope := a.MediaWikiContent(doc); scope.Length() > 0 {
		if blocks := a.Blocks(scope); len(blocks) > 0 {
			return blocks, nil
		}
	}

	if blocks := a.readabilityBlocks(doc, rawURL); len(blocks) > 0 {
		return blocks, nil
	}

	return a.Blocks(doc.Selection), nil
}

func (a *GenericAdapter) readabilityBlocks(doc *goquery.Document, rawURL string) []string {
	page, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		pageURL = &url.URL{Scheme: "https", Host: "localhost"}
	}

	article, err := readability.FromReader(strings.NewReader(page), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return nil
	}

	main, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil
	}
	return a.Blocks(main.Selection)
}
