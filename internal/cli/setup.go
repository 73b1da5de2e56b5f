/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philippgille/chromem-go"

	"Fincrew/internal/agent"
	"Fincrew/internal/config"
	"Fincrew/internal/crew"
	"Fincrew/internal/parser"
	"Fincrew/internal/tools"
	"Fincrew/internal/vectorstore"
	"Fincrew/pkg/types"
)

// loadSettings loads process configuration or exits
func loadSettings() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// loadCrew returns the crew in path, or the built-in crew when path is empty
func loadCrew(path string) (*types.CrewConfig, error) {
	if path == "" {
		return crew.Default(), nil
	}
	return parser.ParseYAML(path)
}

// applyOverrides points every model of the crew at another provider or model.
// Configured keys are dropped so they are resolved again for the new provider.
func applyOverrides(c *types.CrewConfig, provider, model string) []string {
	if provider == "" && model == "" {
		return nil
	}
	var notes []string
	for name, m := range c.Models {
		if provider != "" {
			m.Provider = provider
			m.Endpoint = ""
			notes = append(notes, fmt.Sprintf("Overriding provider for '%s' → %s", name, provider))
		}
		if model != "" {
			m.Model = model
			notes = append(notes, fmt.Sprintf("Overriding model for '%s' → %s", name, model))
		}
		m.APIKey = ""
		c.Models[name] = m
	}
	return notes
}

// buildRegistry creates the tools every crew can use
func buildRegistry(cfg *config.Config) (*tools.Registry, *tools.DocumentTool) {
	doc := tools.NewDocumentTool()
	registry := tools.NewRegistry(
		doc,
		tools.NewSearchTool(cfg.SearchAPIKey()),
		&tools.CalcTool{},
	)
	return registry, doc
}

// describeMCPServers lists the tools each connected server contributed
func describeMCPServers(servers []string, registry *tools.Registry) []string {
	lines := make([]string, 0, len(servers))
	for _, name := range servers {
		found := registry.GetByPrefix(name + ".")
		toolNames := make([]string, 0, len(found))
		for _, t := range found {
			toolNames = append(toolNames, t.Name())
		}
		lines = append(lines, fmt.Sprintf("%s: %d tools (%s)", name, len(found), strings.Join(toolNames, ", ")))
	}
	return lines
}

// ensureAPIKeys fills in missing model keys from the environment and config
// files, prompting on in for anything still missing.
func ensureAPIKeys(c *types.CrewConfig, cfg *config.Config, in io.Reader, out io.Writer) error {
	var reader *bufio.Reader

	for name, model := range c.Models {
		if !agent.NeedsAPIKey(model.Provider) || model.APIKey != "" {
			continue
		}

		if key := cfg.APIKey(model.Provider); key != "" {
			model.APIKey = key
			c.Models[name] = model
			continue
		}

		if reader == nil {
			reader = bufio.NewReader(in)
		}
		envKey := config.EnvKeyNames(model.Provider)[0]
		fmt.Fprintf(out, "API key required for %s (%s)\n", name, model.Provider)
		fmt.Fprintf(out, "Enter API key (or set %s environment variable): ", envKey)

		apiKey, err := reader.ReadString('\n')
		if err != nil && apiKey == "" {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey = strings.TrimSpace(apiKey)
		if apiKey == "" {
			return fmt.Errorf("API key is required for %s", name)
		}

		model.APIKey = apiKey
		c.Models[name] = model

		fmt.Fprint(out, "Save this API key to config? (y/n): ")
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) == "y" {
			global, err := config.LoadFile(cfg.GlobalPath)
			if err != nil {
				return err
			}
			global.APIKey = apiKey
			global.Provider = model.Provider
			if err := config.SaveFile(cfg.GlobalPath, global); err != nil {
				fmt.Fprintf(out, "Warning: Could not save config: %v\n", err)
			} else {
				fmt.Fprintln(out, "✓ API key saved to config")
			}
		}
	}

	return nil
}

// embeddingFunc returns the configured embedding backend
func embeddingFunc(cfg *config.Config) (chromem.EmbeddingFunc, error) {
	return vectorstore.NewEmbeddingFunc(cfg.Embedding, cfg.EmbeddingModel, cfg.APIKey(cfg.Embedding))
}
