package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/claimcheck/internal/extract/adapters"
)

// ErrNoContent is returned when a page yields no qualifying text blocks
var ErrNoContent = errors.New("no content extracted")

// BlockSeparator joins extracted blocks
const BlockSeparator = "\n\n"

// ContentExtractor turns article HTML into plain text for the verifier
type ContentExtractor struct {
	registry *adapters.Registry
}

// NewContentExtractor creates a content extractor with the built-in adapters
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		registry: adapters.NewRegistry(),
	}
}

// Extract removes page chrome and returns the article's heading,
// paragraph and list-item text joined by blank lines. It performs no I/O
// and is deterministic.
func (e *ContentExtractor) Extract(htmlContent, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	adapter := e.registry.FindAdapter(pageURL, "text/html")
	adapters.RemoveNoise(doc)

	blocks, err := adapter.ExtractBlocks(doc, pageURL)
	if err != nil {
		return "", fmt.Errorf("%s adapter: %w", adapter.Name(), err)
	}
	if len(blocks) == 0 {
		return "", ErrNoContent
	}
	return strings.Join(blocks, BlockSeparator), nil
}
