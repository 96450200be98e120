package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage claimcheck configuration",
	Long: `Manage claimcheck configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLAIMCHECK_*, e.g. CLAIMCHECK_LLM_PROVIDER)
3. Config file (~/.claimcheck/config.yaml)
4. Defaults

Credentials are read from the environment (or a .env file) only:
CUSTOM_SEARCH_API_KEY, CUSTOM_SEARCH_ENGINE_ID, OPENAI_API_KEY,
ANTHROPIC_API_KEY.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment. Credentials are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(viper.GetViper(), nil)
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println(string(yamlData))

		fmt.Println("Credentials:")
		fmt.Printf("  CUSTOM_SEARCH_API_KEY:   %s\n", present(cfg.Search.APIKey))
		fmt.Printf("  CUSTOM_SEARCH_ENGINE_ID: %s\n", present(cfg.Search.EngineID))
		fmt.Printf("  LLM API key (%s):   %s\n", cfg.LLM.Provider, present(cfg.LLM.APIKey))
		fmt.Println()
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.claimcheck/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".claimcheck", "config.yaml")
		if err := WriteDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  claimcheck config show\n")
		return nil
	},
}

// WriteDefaultConfig writes the commented default configuration to path.
// An existing file is never overwritten.
func WriteDefaultConfig(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'claimcheck config show' to view it, or delete it first to recreate", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# claimcheck configuration file\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (CLAIMCHECK_*)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")

	yamlData, marshalErr := yaml.Marshal(model.DefaultConfig())
	if marshalErr != nil {
		return fmt.Errorf("error marshaling config: %w", marshalErr)
	}
	printf("%s", yamlData)

	printf("\n# Credentials belong in the environment or a .env file:\n")
	printf("#   CUSTOM_SEARCH_API_KEY=...\n")
	printf("#   CUSTOM_SEARCH_ENGINE_ID=...\n")
	printf("#   OPENAI_API_KEY=sk-...\n")
	printf("#   ANTHROPIC_API_KEY=sk-ant-...\n")
	return err
}

func present(secret string) string {
	if secret == "" {
		return "not set"
	}
	return "set"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
