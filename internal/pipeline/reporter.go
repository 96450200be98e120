package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Reporter prints per-claim progress and verdicts for a human reader
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out}
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Query prints the input query
func (r *Reporter) Query(query string) {
	r.printf("Query: %s\n", query)
}

// Claims prints the extracted claim list
func (r *Reporter) Claims(claims []string) {
	r.printf("Claims: %d\n", len(claims))
	for i, c := range claims {
		r.printf("  %d. %s\n", i+1, c)
	}
}

// ClaimStart opens a claim section
func (r *Reporter) ClaimStart(claim string) {
	r.printf("\nEvaluating claim: %s\n", claim)
}

// Optimized prints the optimizer rewrite
func (r *Reporter) Optimized(optimized string) {
	r.printf("Optimized claim: %s\n", optimized)
}

// Article prints the locator's article title
func (r *Reporter) Article(title string) {
	r.printf("Wikipedia Article To Check: %s\n", title)
}

// URLs prints the search result links
func (r *Reporter) URLs(urls []string) {
	r.printf("URLs Fetched: [%s]\n", strings.Join(urls, ", "))
}

// Scraping announces the scrape step
func (r *Reporter) Scraping() {
	r.printf("Scraping content from Wikipedia article...\n")
}

// Message prints a single status line
func (r *Reporter) Message(msg string) {
	r.printf("%s\n", msg)
}

// Verdict prints the verifier answer
func (r *Reporter) Verdict(v model.Verdict) {
	r.printf("\n=== Answer from article ===\n")
	r.printf("Label: %s\n", v.Label)
	r.printf("Evidence: %s\n", v.Evidence)
	if !v.Parsed {
		r.printf("Outcome: %s (response was not valid JSON)\n", v.Outcome())
	} else if !v.Grounded {
		r.printf("Note: evidence not found verbatim in the article\n")
	}
}

// Link prints the text-fragment link to the evidence
func (r *Reporter) Link(link string) {
	r.printf("\n=== LINK TO RESPONSE ===\n")
	r.printf("%s\n", link)
}

// Summary prints outcome counts for the run
func (r *Reporter) Summary(report *model.RunReport) {
	if len(report.Results) == 0 {
		return
	}
	counts := CountOutcomes(report.Results)
	r.printf("\n═══ Summary ═══\n")
	r.printf("Claims checked: %d\n", len(report.Results))
	r.printf("  Supported:     %d\n", counts[model.OutcomeSupported])
	r.printf("  Refuted:       %d\n", counts[model.OutcomeRefuted])
	r.printf("  Indeterminate: %d\n", counts[model.OutcomeIndeterminate])
	r.printf("  Failed:        %d\n", counts[outcomeFailed])
	r.printf("Total time: %s\n", report.TotalTime.Round(time.Millisecond))
}

const outcomeFailed model.Outcome = "failed"

// CountOutcomes tallies results by verdict outcome; results without a
// verdict count as "failed"
func CountOutcomes(results []model.ClaimResult) map[model.Outcome]int {
	counts := make(map[model.Outcome]int)
	for _, res := range results {
		if res.Failed() {
			counts[outcomeFailed]++
			continue
		}
		counts[res.Verdict.Outcome()]++
	}
	return counts
}

// TextFragmentLink appends a #:~:text= directive highlighting evidence.
// Empty evidence returns url unchanged.
func TextFragmentLink(url, evidence string) string {
	if evidence == "" {
		return url
	}
	return url + "#:~:text=" + encodeFragment(evidence)
}

// encodeFragment percent-encodes every byte outside A-Z a-z 0-9 _ . ~.
// '-', ',' and '&' are text-directive syntax and must be escaped.
func encodeFragment(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
