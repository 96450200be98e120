package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/model"
)

// LoadConfig layers viper values (flags, CLAIMCHECK_* env, config file)
// over the defaults, then reads secrets from the plain environment.
func LoadConfig(v *viper.Viper, getenv func(string) string) (*model.Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := model.DefaultConfig()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	// LLM
	str("llm.provider", &cfg.LLM.Provider)
	str("llm.base_url", &cfg.LLM.BaseURL)
	integer("llm.max_tokens", &cfg.LLM.MaxTokens)
	if v.IsSet("llm.model") {
		cfg.LLM.Models.SetAll(v.GetString("llm.model"))
	}
	str("llm.models.extract", &cfg.LLM.Models.Extract)
	str("llm.models.optimize", &cfg.LLM.Models.Optimize)
	str("llm.models.locate", &cfg.LLM.Models.Locate)
	str("llm.models.verify", &cfg.LLM.Models.Verify)

	// Search
	str("search.endpoint", &cfg.Search.Endpoint)
	integer("search.top_n", &cfg.Search.TopN)

	// HTTP
	str("http.user_agent", &cfg.HTTP.UserAgent)
	integer("http.max_redirects", &cfg.HTTP.MaxRedirects)
	boolean("http.respect_robots", &cfg.HTTP.RespectRobots)
	str("http.http_proxy", &cfg.HTTP.HTTPProxy)
	str("http.https_proxy", &cfg.HTTP.HTTPSProxy)
	str("http.no_proxy", &cfg.HTTP.NoProxy)
	if v.IsSet("http.max_body_bytes") {
		cfg.HTTP.MaxBodyBytes = v.GetInt64("http.max_body_bytes")
	}

	// Scrape, verify, pipeline
	boolean("scrape.wikipedia_rest", &cfg.Scrape.WikipediaREST)
	str("scrape.rest_base_url", &cfg.Scrape.RESTBaseURL)
	integer("verify.max_content_chars", &cfg.Verify.MaxContentChars)
	boolean("pipeline.optimize", &cfg.Pipeline.Optimize)
	boolean("pipeline.use_optimized", &cfg.Pipeline.UseOptimized)

	// Retry, pacing, workers
	integer("retry.max_attempts", &cfg.Retry.MaxAttempts)
	integer("rate_limiting.burst_size", &cfg.RateLimiting.BurstSize)
	if v.IsSet("rate_limiting.requests_per_second") {
		cfg.RateLimiting.RequestsPerSecond = v.GetFloat64("rate_limiting.requests_per_second")
	}
	integer("concurrency.workers", &cfg.Concurrency.Workers)

	// Output
	boolean("output.verbose", &cfg.Output.Verbose)
	str("output.json_path", &cfg.Output.JSONPath)
	str("output.markdown_path", &cfg.Output.MarkdownPath)
	str("output.html_path", &cfg.Output.HTMLPath)

	// Durations
	for key, dst := range map[string]*time.Duration{
		"llm.timeout":      &cfg.LLM.Timeout,
		"search.timeout":   &cfg.Search.Timeout,
		"http.timeout":     &cfg.HTTP.Timeout,
		"retry.base_delay": &cfg.Retry.BaseDelay,
		"retry.max_delay":  &cfg.Retry.MaxDelay,
	} {
		if !v.IsSet(key) {
			continue
		}
		d := v.GetDuration(key)
		if d <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration, got %q", key, v.GetString(key))
		}
		*dst = d
	}

	if cfg.Search.TopN < 1 {
		return nil, fmt.Errorf("search.top_n must be at least 1, got %d", cfg.Search.TopN)
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("retry.max_attempts must be at least 1, got %d", cfg.Retry.MaxAttempts)
	}

	applySecrets(cfg, getenv)
	return cfg, nil
}

// applySecrets reads credentials from the environment only; they are never
// part of the config file
func applySecrets(cfg *model.Config, getenv func(string) string) {
	cfg.Search.APIKey = getenv("CUSTOM_SEARCH_API_KEY")
	cfg.Search.EngineID = getenv("CUSTOM_SEARCH_ENGINE_ID")

	switch strings.ToLower(cfg.LLM.Provider) {
	case "anthropic", "claude":
		cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = getenv("OLLAMA_BASE_URL")
		}
	default:
		cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
	}
}

// bindFlags binds a command's flags to config keys. Only flags the user
// changed override the lower layers.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag: %s", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}
