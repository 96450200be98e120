package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/eval"
)

var (
	evalDataset  string
	evalMaxTests int
	evalOutput   string
	evalTimeout  time.Duration
)

// evalFlags maps eval flags onto config keys
var evalFlags = map[string]string{
	"provider":          "llm.provider",
	"model":             "llm.model",
	"base-url":          "llm.base_url",
	"concurrency":       "concurrency.workers",
	"max-content-chars": "verify.max_content_chars",
	"retry":             "retry.max_attempts",
}

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score the pipeline against a labelled claim dataset",
	Long: `Eval runs every claim of a JSONL dataset through the article lookup,
scrape and verification stages and compares the predicted label with the
expected one. Each line holds {"id", "claim", "expected_label"}.

Example:
  claimcheck eval --dataset data/test_claims_wikipedia.jsonl --max-tests 10
  claimcheck eval --dataset claims.jsonl --base-url http://localhost:1234/v1 --model local-model --output results.json
  claimcheck eval --dataset claims.jsonl --concurrency 4`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	flags := evalCmd.Flags()
	flags.StringVar(&evalDataset, "dataset", "data/test_claims_wikipedia.jsonl", "JSONL dataset path")
	flags.IntVar(&evalMaxTests, "max-tests", 0, "evaluate only the first N rows (0 = all)")
	flags.StringVar(&evalOutput, "output", "", "save results as JSON to this path")
	flags.DurationVar(&evalTimeout, "timeout", time.Hour, "overall evaluation timeout")

	flags.String("provider", "openai", "LLM provider (openai, anthropic, ollama)")
	flags.String("model", "", "use this model for every stage")
	flags.String("base-url", "", "OpenAI-compatible server or Ollama host")
	flags.Int("concurrency", 1, "rows evaluated in parallel")
	flags.Int("max-content-chars", 0, "cap article text sent to the verifier (0 = whole article)")
	flags.Int("retry", 1, "attempts per network call (1 = no retry)")
}

func runEval(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), evalFlags); err != nil {
		return err
	}
	cfg, err := LoadConfig(v, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	rows, err := eval.LoadDataset(evalDataset)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	// Per-claim console output only makes sense when rows run one at a time
	var out io.Writer = io.Discard
	if cfg.Output.Verbose && cfg.Concurrency.Workers <= 1 {
		out = os.Stdout
	}
	p, err := buildPipeline(ctx, cfg, out)
	if err != nil {
		return err
	}
	if err := p.Preflight(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Evaluating %s (%d rows, concurrency %d)\n", evalDataset, len(rows), cfg.Concurrency.Workers)
	runner := eval.NewRunner(p, cfg.Concurrency.Workers, os.Stderr)
	report := runner.Run(ctx, rows, evalMaxTests)

	eval.PrintResults(os.Stdout, report)

	if evalOutput != "" {
		if err := eval.WriteJSON(report, evalOutput); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\n✓ Results saved to: %s\n", evalOutput)
	}
	return nil
}
