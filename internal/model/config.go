package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingCredential is returned by Validate when a required secret is absent
var ErrMissingCredential = errors.New("missing credential")

// Config is the complete runtime configuration.
// Secrets carry yaml:"-" so `config show` and `config init` never print them.
type Config struct {
	LLM          LLMConfig       `yaml:"llm"`
	Search       SearchConfig    `yaml:"search"`
	HTTP         HTTPConfig      `yaml:"http"`
	Scrape       ScrapeConfig    `yaml:"scrape"`
	Verify       VerifyConfig    `yaml:"verify"`
	Pipeline     PipelineConfig  `yaml:"pipeline"`
	Retry        RetryConfig     `yaml:"retry"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting"`
	Concurrency  Concurrency     `yaml:"concurrency"`
	Output       OutputConfig    `yaml:"output"`
}

// LLMConfig configures the language model service
type LLMConfig struct {
	Provider  string        `yaml:"provider"`           // openai, anthropic, ollama
	APIKey    string        `yaml:"-"`                  // OPENAI_API_KEY / ANTHROPIC_API_KEY
	BaseURL   string        `yaml:"base_url,omitempty"` // OpenAI-compatible local server, Ollama host
	Timeout   time.Duration `yaml:"timeout"`            // Per-call timeout
	MaxTokens int           `yaml:"max_tokens"`
	Models    StageModels   `yaml:"models"`
}

// StageModels names the model used for each LLM call site
type StageModels struct {
	Extract  string `yaml:"extract"`
	Optimize string `yaml:"optimize"`
	Locate   string `yaml:"locate"`
	Verify   string `yaml:"verify"`
}

// SetAll points every stage at the same model
func (m *StageModels) SetAll(model string) {
	m.Extract = model
	m.Optimize = model
	m.Locate = model
	m.Verify = model
}

// SearchConfig configures the web search API
type SearchConfig struct {
	APIKey   string        `yaml:"-"` // CUSTOM_SEARCH_API_KEY
	EngineID string        `yaml:"-"` // CUSTOM_SEARCH_ENGINE_ID
	Endpoint string        `yaml:"endpoint"`
	TopN     int           `yaml:"top_n"`
	Timeout  time.Duration `yaml:"timeout"`
}

// HTTPConfig configures page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	MaxRedirects  int           `yaml:"max_redirects"`
	RespectRobots bool          `yaml:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty"`
}

// ScrapeConfig configures article scraping strategies
type ScrapeConfig struct {
	WikipediaREST bool   `yaml:"wikipedia_rest"`         // Try REST plain/mobile-html before the page itself
	RESTBaseURL   string `yaml:"rest_base_url,omitempty"` // Overrides https://<host>/api/rest_v1
}

// VerifyConfig configures the verifier
type VerifyConfig struct {
	// MaxContentChars caps the document sent to the model (0 = unlimited).
	// When exceeded, paragraphs are selected by relevance to the claim.
	MaxContentChars int `yaml:"max_content_chars"`
}

// PipelineConfig configures the claim loop
type PipelineConfig struct {
	Optimize     bool `yaml:"optimize"`      // Run the claim optimizer at all
	UseOptimized bool `yaml:"use_optimized"` // Feed the optimized claim to locate/verify
}

// RetryConfig configures bounded retry with jitter for network calls
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"` // 1 = single attempt
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// RateLimitConfig configures per-host request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// Concurrency configures the eval harness worker pool
type Concurrency struct {
	Workers int `yaml:"workers"`
}

// OutputConfig configures reporting
type OutputConfig struct {
	Verbose      bool   `yaml:"verbose"`
	JSONPath     string `yaml:"json_path,omitempty"`
	MarkdownPath string `yaml:"markdown_path,omitempty"`
	HTMLPath     string `yaml:"html_path,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Timeout:   60 * time.Second,
			MaxTokens: 0, // provider default
			Models: StageModels{
				Extract:  "gpt-5-nano",
				Optimize: "gpt-5-mini",
				Locate:   "gpt-5-nano",
				Verify:   "gpt-5-nano",
			},
		},
		Search: SearchConfig{
			Endpoint: "https://customsearch.googleapis.com/",
			TopN:     1,
			Timeout:  30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "claimcheck/0.1 (+https://github.com/ppiankov/claimcheck)",
			MaxBodyBytes:  5_000_000,
			MaxRedirects:  5,
			RespectRobots: false,
		},
		Scrape: ScrapeConfig{
			WikipediaREST: true,
		},
		Verify: VerifyConfig{
			MaxContentChars: 0,
		},
		Pipeline: PipelineConfig{
			Optimize:     true,
			UseOptimized: false,
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    10 * time.Second,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: Concurrency{
			Workers: 1,
		},
	}
}

// Validate fails fast when a credential required by the configured
// providers is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Search.APIKey == "" {
		missing = append(missing, "CUSTOM_SEARCH_API_KEY")
	}
	if c.Search.EngineID == "" {
		missing = append(missing, "CUSTOM_SEARCH_ENGINE_ID")
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "openai":
		// A local OpenAI-compatible server does not need a key
		if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if c.LLM.APIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", c.LLM.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}
