/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"fmt"
	"os"

	"Fincrew/internal/config"

	"github.com/spf13/cobra"
)

var (
	apiKey         string
	name           string
	model          string
	provider       string
	serperKey      string
	embedding      string
	embeddingModel string
	dataDir        string
	show           bool
	global         bool
	local          bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure fincrew settings",
	Long: `Configure fincrew settings like API keys, model, provider and embeddings.

Configuration can be stored globally or locally:
  --global    Save to ~/.fincrew.yaml (user-wide, default)
  --local     Save to ./.fincrew.yaml (project-specific)

Local config takes precedence over global config. Environment variables
(GEMINI_API_KEY, OPENAI_API_KEY, SERPER_API_KEY, ...) and a .env file in the
working directory take precedence over both.

Examples:
  fincrew config --api "sk-xxx" --provider openai     Set global API key
  fincrew config --serper "xxx"                       Set the search API key
  fincrew config --embedding ollama --local           Enable run search and crew memory
  fincrew config --show                               Show current configuration`,
	Run: func(cmd *cobra.Command, args []string) {
		if show {
			showConfigWithScope()
			return
		}

		if apiKey == "" && name == "" && model == "" && provider == "" &&
			serperKey == "" && embedding == "" && embeddingModel == "" && dataDir == "" {
			fmt.Println("Error: No configuration option provided.")
			fmt.Println()
			cmd.Usage()
			os.Exit(1)
		}

		configPath := getConfigPathWithScope()
		f, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not parse existing config: %v\n", err)
		}

		update := func(dst *string, v, label string) {
			if v == "" {
				return
			}
			*dst = v
			fmt.Printf("✓ %s set\n", label)
		}
		update(&f.APIKey, apiKey, "API key")
		update(&f.Name, name, "Name")
		update(&f.Model, model, "Model")
		update(&f.Provider, provider, "Provider")
		update(&f.SerperAPIKey, serperKey, "Search API key")
		update(&f.Embedding, embedding, "Embedding provider")
		update(&f.EmbeddingModel, embeddingModel, "Embedding model")
		update(&f.DataDir, dataDir, "Data directory")

		if err := config.SaveFile(configPath, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}

		scope := "global"
		if local {
			scope = "local"
		}
		fmt.Printf("\nConfiguration saved to: %s (%s)\n", configPath, scope)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&apiKey, "api", "", "API key for the LLM provider")
	configCmd.Flags().StringVar(&name, "name", "", "Project name")
	configCmd.Flags().StringVar(&model, "model", "", "Default model to use")
	configCmd.Flags().StringVar(&provider, "provider", "", "LLM provider the API key belongs to (gemini, openai, anthropic, ...)")
	configCmd.Flags().StringVar(&serperKey, "serper", "", "Serper API key for internet search")
	configCmd.Flags().StringVar(&embedding, "embedding", "", "Embedding provider for run search and crew memory (ollama, openai, mistral)")
	configCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "Embedding model name")
	configCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for runs, logs and the vector index (default ~/.fincrew)")
	configCmd.Flags().BoolVar(&show, "show", false, "Show current configuration")
	configCmd.Flags().BoolVar(&global, "global", false, "Use global config (~/.fincrew.yaml)")
	configCmd.Flags().BoolVar(&local, "local", false, "Use local config (./.fincrew.yaml)")
}

func getConfigPathWithScope() string {
	get := config.GlobalPath
	if local {
		get = config.LocalPath
	}
	path, err := get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return path
}

func showConfigWithScope() {
	if local || global {
		path := getConfigPathWithScope()
		scope := "Global"
		if local {
			scope = "Local"
		}
		f, err := config.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("=== %s Configuration ===\n", scope)
		fmt.Printf("Config file: %s\n\n", path)
		printConfig(f)
		return
	}

	cfg := loadSettings()
	fmt.Println("=== Effective Configuration ===")
	fmt.Printf("Global: %s\n", cfg.GlobalPath)
	fmt.Printf("Local:  %s\n\n", cfg.LocalPath)
	printConfig(cfg.File)
	fmt.Printf("Search:    %s\n", config.MaskKey(cfg.SearchAPIKey()))
	fmt.Printf("Data dir:  %s\n", cfg.Home())
}

func printConfig(f config.File) {
	orUnset := func(v string) string {
		if v == "" {
			return "(not set)"
		}
		return v
	}
	fmt.Printf("API Key:   %s\n", config.MaskKey(f.APIKey))
	fmt.Printf("Name:      %s\n", orUnset(f.Name))
	fmt.Printf("Model:     %s\n", orUnset(f.Model))
	fmt.Printf("Provider:  %s\n", orUnset(f.Provider))
	fmt.Printf("Serper:    %s\n", config.MaskKey(f.SerperAPIKey))
	fmt.Printf("Embedding: %s %s\n", orUnset(f.Embedding), f.EmbeddingModel)
}
