package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Renderer writes run reports to files
type Renderer struct {
	markdown goldmark.Markdown
}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.RunReport, path string) error {
	return os.WriteFile(path, []byte(Markdown(report)), 0o644)
}

// RenderHTML converts the Markdown report to a standalone HTML page
func (r *Renderer) RenderHTML(report *model.RunReport, path string) error {
	body, err := r.HTML(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// HTML returns the report as an HTML document
func (r *Renderer) HTML(report *model.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>claimcheck report</title>\n</head>\n<body>\n")
	if err := r.markdown.Convert([]byte(Markdown(report)), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Markdown formats the report
func Markdown(report *model.RunReport) string {
	var b strings.Builder

	b.WriteString("# Claim Check Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", report.Query)
	fmt.Fprintf(&b, "**Run:** %s (%s)\n\n", report.StartedAt.Format(time.RFC3339), report.TotalTime.Round(time.Millisecond))

	if len(report.Claims) == 0 {
		b.WriteString("No fact-checkable claims were found.\n")
		return b.String()
	}

	counts := CountOutcomes(report.Results)
	b.WriteString("## Summary\n\n")
	b.WriteString("| Outcome | Count |\n|---|---|\n")
	for _, o := range []model.Outcome{model.OutcomeSupported, model.OutcomeRefuted, model.OutcomeIndeterminate, outcomeFailed} {
		fmt.Fprintf(&b, "| %s | %d |\n", o, counts[o])
	}
	b.WriteString("\n## Claims\n\n")

	for i, res := range report.Results {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, res.Claim)
		if res.Optimized != "" {
			fmt.Fprintf(&b, "- **Optimized:** %s\n", res.Optimized)
		}
		if res.ArticleQuery != "" {
			fmt.Fprintf(&b, "- **Article:** %s\n", res.ArticleQuery)
		}
		if res.SourceURL != "" {
			fmt.Fprintf(&b, "- **Source:** <%s>\n", res.SourceURL)
		}
		if res.Failed() {
			fmt.Fprintf(&b, "- **Error:** %s\n\n", res.Error)
			continue
		}
		v := res.Verdict
		fmt.Fprintf(&b, "- **Label:** %s (%s)\n", v.Label, v.Outcome())
		if v.Parsed && !v.Grounded {
			b.WriteString("- **Note:** evidence not found verbatim in the article\n")
		}
		if res.Link != "" {
			fmt.Fprintf(&b, "- **Link:** [evidence](%s)\n", res.Link)
		}
		if v.Evidence != "" {
			fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(v.Evidence, "\n", "\n> "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderReport writes every configured output. Paths left empty are skipped.
func (r *Renderer) RenderReport(report *model.RunReport, out model.OutputConfig) ([]string, error) {
	var written []string
	if out.JSONPath != "" {
		if err := r.RenderJSON(report, out.JSONPath); err != nil {
			return written, fmt.Errorf("render JSON: %w", err)
		}
		written = append(written, out.JSONPath)
	}
	if out.MarkdownPath != "" {
		if err := r.RenderMarkdown(report, out.MarkdownPath); err != nil {
			return written, fmt.Errorf("render markdown: %w", err)
		}
		written = append(written, out.MarkdownPath)
	}
	if out.HTMLPath != "" {
		if err := r.RenderHTML(report, out.HTMLPath); err != nil {
			return written, fmt.Errorf("render HTML: %w", err)
		}
		written = append(written, out.HTMLPath)
	}
	return written, nil
}
