package model

import "time"

// ClaimResult records one claim's trip through the pipeline
type ClaimResult struct {
	Claim        string   `json:"claim"`
	Optimized    string   `json:"optimized,omitempty"`
	Checked      string   `json:"checked"`                 // Text actually located and verified
	ArticleQuery string   `json:"article_query,omitempty"` // Locator query (usually a Wikipedia title)
	URLs         []string `json:"urls,omitempty"`
	SourceURL    string   `json:"source_url,omitempty"`
	ContentChars int      `json:"content_chars,omitempty"`
	Verdict      *Verdict `json:"verdict,omitempty"`
	Link         string   `json:"link,omitempty"` // Source URL with text-fragment anchor
	Error        string   `json:"error,omitempty"`
	Timing       Timing   `json:"timing"`
}

// Timing holds per-stage durations
type Timing struct {
	Optimize time.Duration `json:"optimize_ns"`
	Locate   time.Duration `json:"locate_ns"`
	Scrape   time.Duration `json:"scrape_ns"`
	Verify   time.Duration `json:"verify_ns"`
	Total    time.Duration `json:"total_ns"`
}

// RunReport is the structured output of one `check` invocation
type RunReport struct {
	Query       string        `json:"query"`
	StartedAt   time.Time     `json:"started_at"`
	Claims      []string      `json:"claims"`
	Results     []ClaimResult `json:"results"`
	ExtractTime time.Duration `json:"extract_ns"`
	TotalTime   time.Duration `json:"total_ns"`
}

// Failed reports whether the claim stopped before producing a verdict
func (r ClaimResult) Failed() bool {
	return r.Verdict == nil
}
