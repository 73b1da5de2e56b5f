// Package crew holds the built-in financial document crew.
package crew

import "Fincrew/pkg/types"

const (
	DefaultProvider  = "gemini"
	DefaultModelName = "gemini-2.0-flash"
)

// Default returns a fresh copy of the built-in crew
func Default() *types.CrewConfig {
	return &types.CrewConfig{
		Name:    "financial-document-analysis",
		Process: types.ProcessSequential,
		Agents:  Agents(),
		Tasks:   Tasks(),
		Models: map[string]types.Model{
			DefaultModel: {Provider: DefaultProvider, Model: DefaultModelName},
		},
	}
}
