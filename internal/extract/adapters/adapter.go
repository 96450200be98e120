package adapters

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NoiseSelectors are removed from every page before text is collected:
// navigation boxes, infoboxes, footnote markers, edit links, tables of
// contents, category links and citation backlinks.
var NoiseSelectors = []string{
	".navbox",
	".infobox",
	".sidebar",
	".reference",
	".mw-editsection",
	".mw-jump-link",
	".toc",
	".catlinks",
	".mw-cite-backlink",
	"script",
	"style",
	"noscript",
}

// BlockSelector matches the elements whose text becomes content blocks
const BlockSelector = "h1, h2, h3, h4, h5, h6, p, li"

// MinBlockRunes is the exclusive lower bound on block length
const MinBlockRunes = 10

// Adapter defines the interface for domain-specific content extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(url string, contentType string) bool

	// ExtractBlocks returns the main-content text blocks in document order.
	// The document has already had NoiseSelectors removed.
	ExtractBlocks(doc *goquery.Document, url string) ([]string, error)
}

// Registry manages domain adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewWikipediaAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url, contentType) {
			return adapter
		}
	}
	return r.generic
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// RemoveNoise deletes every node matching NoiseSelectors
func RemoveNoise(doc *goquery.Document) {
	doc.Find(strings.Join(NoiseSelectors, ", ")).Remove()
}

// MediaWikiContent returns the MediaWiki article body, or an empty selection
func (b *BaseAdapter) MediaWikiContent(doc *goquery.Document) *goquery.Selection {
	return doc.Find("#mw-content-text .mw-parser-output").First()
}

// Blocks collects heading, paragraph and list item text under scope.
// Nested matches are each emitted, so a paragraph inside a list item
// appears both on its own and as part of the item.
func (b *BaseAdapter) Blocks(scope *goquery.Selection) []string {
	var blocks []string
	scope.Find(BlockSelector).Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		text := b.ExtractText(s.Nodes[0])
		if utf8.RuneCountInString(text) > MinBlockRunes {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// ExtractText returns the node's text with whitespace runs collapsed
func (b *BaseAdapter) ExtractText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			return
		}
		if node.Type == html.ElementNode && node.Data == "br" {
			buf.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
