package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/model"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), env(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	def := model.DefaultConfig()
	if cfg.LLM.Models != def.LLM.Models {
		t.Errorf("Expected default models, got %+v", cfg.LLM.Models)
	}
	if cfg.Search.TopN != 1 || cfg.Retry.MaxAttempts != 1 || cfg.Pipeline.UseOptimized {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_Values(t *testing.T) {
	v := viper.New()
	v.Set("llm.provider", "ollama")
	v.Set("llm.model", "llama3")
	v.Set("llm.models.verify", "qwen2")
	v.Set("llm.timeout", "90s")
	v.Set("search.top_n", 3)
	v.Set("pipeline.use_optimized", true)
	v.Set("verify.max_content_chars", 8000)
	v.Set("rate_limiting.requests_per_second", 2.5)
	v.Set("http.max_body_bytes", 1024)

	cfg, err := LoadConfig(v, env(map[string]string{"OLLAMA_BASE_URL": "http://gpu:11434"}))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LLM.Models.Extract != "llama3" || cfg.LLM.Models.Locate != "llama3" {
		t.Errorf("llm.model should set every stage, got %+v", cfg.LLM.Models)
	}
	if cfg.LLM.Models.Verify != "qwen2" {
		t.Errorf("per-stage model should win over llm.model, got %s", cfg.LLM.Models.Verify)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("Expected 90s timeout, got %v", cfg.LLM.Timeout)
	}
	if cfg.Search.TopN != 3 || !cfg.Pipeline.UseOptimized || cfg.Verify.MaxContentChars != 8000 {
		t.Errorf("Unexpected values: %+v", cfg)
	}
	if cfg.RateLimiting.RequestsPerSecond != 2.5 || cfg.HTTP.MaxBodyBytes != 1024 {
		t.Errorf("Unexpected numeric values: %+v / %+v", cfg.RateLimiting, cfg.HTTP)
	}
	if cfg.LLM.BaseURL != "http://gpu:11434" {
		t.Errorf("Expected OLLAMA_BASE_URL fallback, got %q", cfg.LLM.BaseURL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"search.top_n", 0},
		{"retry.max_attempts", 0},
		{"http.timeout", "-5s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			if _, err := LoadConfig(v, env(nil)); err == nil {
				t.Errorf("Expected error for %s=%v", tt.key, tt.value)
			}
		})
	}
}

func TestLoadConfig_Secrets(t *testing.T) {
	secrets := env(map[string]string{
		"CUSTOM_SEARCH_API_KEY":   "search-key",
		"CUSTOM_SEARCH_ENGINE_ID": "cx",
		"OPENAI_API_KEY":          "sk-openai",
		"ANTHROPIC_API_KEY":       "sk-ant",
	})

	cfg, err := LoadConfig(viper.New(), secrets)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Search.APIKey != "search-key" || cfg.Search.EngineID != "cx" || cfg.LLM.APIKey != "sk-openai" {
		t.Errorf("Unexpected secrets: %+v %+v", cfg.Search, cfg.LLM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	v := viper.New()
	v.Set("llm.provider", "Anthropic")
	cfg, err = LoadConfig(v, secrets)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-ant" {
		t.Errorf("Expected the Anthropic key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadConfig_MissingCredentials(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), env(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, model.ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, got %v", err)
	}
}

func TestBindFlags_OnlyChangedFlagsOverride(t *testing.T) {
	v := viper.New()
	v.Set("search.top_n", 4)

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.Int("top-n", 1, "")
	flags.String("model", "", "")
	if err := flags.Parse([]string{"--model", "local-model"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if err := bindFlags(v, flags, map[string]string{"top-n": "search.top_n", "model": "llm.model"}); err != nil {
		t.Fatalf("bindFlags failed: %v", err)
	}
	cfg, err := LoadConfig(v, env(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Search.TopN != 4 {
		t.Errorf("Unchanged flag must not override the config value, got %d", cfg.Search.TopN)
	}
	if cfg.LLM.Models.Verify != "local-model" {
		t.Errorf("Changed flag should win, got %q", cfg.LLM.Models.Verify)
	}
}

func TestBindFlags_UnknownFlag(t *testing.T) {
	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	if err := bindFlags(viper.New(), flags, map[string]string{"nope": "llm.model"}); err == nil {
		t.Error("Expected error for an unknown flag")
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claimcheck", "config.yaml")

	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "api_key") {
		t.Error("Credentials must not be written to the config file")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("viper could not read the generated file: %v", err)
	}
	cfg, err := LoadConfig(v, env(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := model.DefaultConfig()
	if cfg.LLM.Timeout != def.LLM.Timeout || cfg.Retry.BaseDelay != def.Retry.BaseDelay {
		t.Errorf("Durations did not round-trip: %v %v", cfg.LLM.Timeout, cfg.Retry.BaseDelay)
	}
	if cfg.LLM.Models != def.LLM.Models {
		t.Errorf("Models did not round-trip: %+v", cfg.LLM.Models)
	}

	if err := WriteDefaultConfig(path); err == nil {
		t.Error("Expected an error when the file already exists")
	}
}
