package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/search"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var checkTimeout time.Duration

// checkFlags maps check flags onto config keys
var checkFlags = map[string]string{
	"provider":          "llm.provider",
	"model":             "llm.model",
	"base-url":          "llm.base_url",
	"llm-timeout":       "llm.timeout",
	"top-n":             "search.top_n",
	"max-content-chars": "verify.max_content_chars",
	"optimize":          "pipeline.optimize",
	"use-optimized":     "pipeline.use_optimized",
	"retry":             "retry.max_attempts",
	"respect-robots":    "http.respect_robots",
	"ua":                "http.user_agent",
	"json":              "output.json_path",
	"md":                "output.markdown_path",
	"html":              "output.html_path",
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <query...>",
	Short: "Fact-check the claims in a query",
	Long: `Check extracts the fact-checkable claims from a query and, for each one:
- asks the model for the Wikipedia article that should settle it
- finds the article with the Custom Search API
- scrapes the article text
- asks the model for a True/False label and a verbatim excerpt
- prints a link that highlights the excerpt in the article

Example:
  claimcheck check "Marie Curie won two Nobel Prizes and was born in Paris"
  claimcheck check --json report.json --md report.md "The Eiffel Tower is in Rome"
  claimcheck check --provider openai --base-url http://localhost:1234/v1 --model local-model "..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
	// The root command accepts a query directly
	addCheckFlags(rootCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.DurationVar(&checkTimeout, "timeout", 10*time.Minute, "overall run timeout")
	flags.String("json", "", "write the run report as JSON to this path")
	flags.String("md", "", "write the run report as Markdown to this path")
	flags.String("html", "", "write the run report as HTML to this path")

	flags.String("provider", "openai", "LLM provider (openai, anthropic, ollama)")
	flags.String("model", "", "use this model for every stage (overrides llm.models.*)")
	flags.String("base-url", "", "OpenAI-compatible server or Ollama host")
	flags.Duration("llm-timeout", 60*time.Second, "per-call LLM timeout")

	flags.Int("top-n", 1, "search results to request per claim (only the first is used)")
	flags.Int("max-content-chars", 0, "cap article text sent to the verifier, selecting relevant paragraphs (0 = whole article)")
	flags.Bool("optimize", true, "print a self-contained rewrite of each claim")
	flags.Bool("use-optimized", false, "locate and verify with the rewritten claim")
	flags.Int("retry", 1, "attempts per network call (1 = no retry)")
	flags.Bool("respect-robots", false, "honor robots.txt when fetching pages")
	flags.String("ua", model.DefaultConfig().HTTP.UserAgent, "HTTP User-Agent")
}

func runCheck(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is empty")
	}

	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), checkFlags); err != nil {
		return err
	}
	cfg, err := LoadConfig(v, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Models: extract=%s optimize=%s locate=%s verify=%s\n",
			cfg.LLM.Models.Extract, cfg.LLM.Models.Optimize, cfg.LLM.Models.Locate, cfg.LLM.Models.Verify)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", checkTimeout)
	}

	p, err := buildPipeline(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		if err := p.Preflight(ctx); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Provider %s is available\n\n", cfg.LLM.Provider)
	}

	report, err := p.Check(ctx, query)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	written, err := pipeline.NewRenderer().RenderReport(report, cfg.Output)
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// buildPipeline wires the LLM provider and the search client into a pipeline
func buildPipeline(ctx context.Context, cfg *model.Config, out io.Writer) (*pipeline.Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	searcher, err := search.NewCustomSearch(ctx, search.ConfigFromModel(cfg), limiter)
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	return pipeline.NewPipeline(cfg, provider, searcher, out), nil
}
