package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestTextFragmentLink(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		evidence string
		want     string
	}{
		{
			name:     "empty evidence",
			url:      "https://en.wikipedia.org/wiki/Marie_Curie",
			evidence: "",
			want:     "https://en.wikipedia.org/wiki/Marie_Curie",
		},
		{
			name:     "spaces",
			url:      "https://en.wikipedia.org/wiki/Marie_Curie",
			evidence: "first woman to win a Nobel Prize",
			want:     "https://en.wikipedia.org/wiki/Marie_Curie#:~:text=first%20woman%20to%20win%20a%20Nobel%20Prize",
		},
		{
			name:     "directive syntax escaped",
			url:      "https://x.test/a",
			evidence: "1867-1934, Warsaw & Paris",
			want:     "https://x.test/a#:~:text=1867%2D1934%2C%20Warsaw%20%26%20Paris",
		},
		{
			name:     "unreserved kept",
			url:      "https://x.test/a",
			evidence: "a_b.c~d",
			want:     "https://x.test/a#:~:text=a_b.c~d",
		},
		{
			name:     "utf8 bytes",
			url:      "https://x.test/a",
			evidence: "Skłodowska",
			want:     "https://x.test/a#:~:text=Sk%C5%82odowska",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextFragmentLink(tt.url, tt.evidence); got != tt.want {
				t.Errorf("TextFragmentLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporter_Verdict(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Verdict(model.Verdict{Label: model.LabelTrue, Evidence: "She won.", Parsed: true, Grounded: true})
	out := buf.String()
	for _, want := range []string{"=== Answer from article ===", "Label: True", "Evidence: She won."} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Outcome:") || strings.Contains(out, "Note:") {
		t.Errorf("Unexpected annotation for a grounded verdict:\n%s", out)
	}

	buf.Reset()
	r.Verdict(model.Verdict{Label: model.LabelFalse, Evidence: "not json", Parsed: false})
	if !strings.Contains(buf.String(), "Outcome: indeterminate") {
		t.Errorf("Expected indeterminate outcome, got:\n%s", buf.String())
	}

	buf.Reset()
	r.Verdict(model.Verdict{Label: model.LabelFalse, Evidence: "made up", Parsed: true})
	if !strings.Contains(buf.String(), "Note: evidence not found verbatim") {
		t.Errorf("Expected grounding note, got:\n%s", buf.String())
	}
}

func TestReporter_Sections(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Query("Curie won two Nobel prizes")
	r.Claims([]string{"Curie won two Nobel prizes"})
	r.ClaimStart("Curie won two Nobel prizes")
	r.Optimized("Marie Curie won two Nobel Prizes.")
	r.Article("Marie Curie")
	r.URLs([]string{"https://en.wikipedia.org/wiki/Marie_Curie"})
	r.Scraping()
	r.Link("https://en.wikipedia.org/wiki/Marie_Curie#:~:text=x")

	want := `Query: Curie won two Nobel prizes
Claims: 1
  1. Curie won two Nobel prizes

Evaluating claim: Curie won two Nobel prizes
Optimized claim: Marie Curie won two Nobel Prizes.
Wikipedia Article To Check: Marie Curie
URLs Fetched: [https://en.wikipedia.org/wiki/Marie_Curie]
Scraping content from Wikipedia article...

=== LINK TO RESPONSE ===
https://en.wikipedia.org/wiki/Marie_Curie#:~:text=x
`
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Summary(&model.RunReport{})
	if buf.Len() != 0 {
		t.Errorf("Expected no summary for an empty run, got %q", buf.String())
	}

	r.Summary(&model.RunReport{
		TotalTime: 1500 * time.Millisecond,
		Results: []model.ClaimResult{
			{Verdict: &model.Verdict{Label: model.LabelTrue, Parsed: true}},
			{Verdict: &model.Verdict{Label: model.LabelFalse, Parsed: false}},
			{Error: "no URL found"},
		},
	})
	out := buf.String()
	for _, want := range []string{"Claims checked: 3", "Supported:     1", "Refuted:       0", "Indeterminate: 1", "Failed:        1", "Total time: 1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in summary:\n%s", want, out)
		}
	}
}

func TestNewReporter_NilWriter(t *testing.T) {
	r := NewReporter(nil)
	r.Query("does not panic")
}
