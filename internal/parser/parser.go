// Package parser reads crew definitions from YAML.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"Fincrew/internal/agent"
	"Fincrew/internal/crew"
	"Fincrew/internal/engine"
	"Fincrew/pkg/types"
)

// Placeholders a template may reference
var KnownPlaceholders = []string{"file_path", "query"}

// ParseYAML reads and parses a crew file
func ParseYAML(path string) (*types.CrewConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading crew file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a crew and fills in defaults. Unknown fields are rejected.
func Parse(data []byte) (*types.CrewConfig, error) {
	var c types.CrewConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing crew: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *types.CrewConfig) {
	if c.Process == "" {
		c.Process = types.ProcessSequential
	}
	usesDefault := false
	for i := range c.Agents {
		a := &c.Agents[i]
		if a.MaxIter == 0 {
			a.MaxIter = types.DefaultMaxIter
		}
		if a.Model == "" {
			a.Model = crew.DefaultModel
		}
		if a.Model == crew.DefaultModel {
			usesDefault = true
		}
	}
	if c.Models == nil {
		c.Models = make(map[string]types.Model)
	}
	if _, ok := c.Models[crew.DefaultModel]; usesDefault && !ok {
		c.Models[crew.DefaultModel] = types.Model{Provider: crew.DefaultProvider, Model: crew.DefaultModelName}
	}
}

// Validate checks a parsed crew. knownTools lists the tool names the process
// provides; tools named <server>.<tool> are accepted for declared MCP servers.
// Every problem found is reported.
func Validate(c *types.CrewConfig, knownTools []string) error {
	var errs []error
	addf := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Process != types.ProcessSequential && c.Process != types.ProcessParallel {
		addf("unknown process %q", c.Process)
	}
	if len(c.Agents) == 0 {
		addf("no agents defined")
	}

	checkTool := func(owner, name string) {
		if slices.Contains(knownTools, name) {
			return
		}
		if server, _, ok := strings.Cut(name, "."); ok {
			if _, declared := c.MCPServers[server]; declared {
				return
			}
		}
		addf("%s uses unknown tool %q", owner, name)
	}
	checkTemplate := func(owner, field, text string) {
		for _, p := range agent.Placeholders(text) {
			if !slices.Contains(KnownPlaceholders, p) {
				addf("%s %s uses unknown placeholder {%s}", owner, field, p)
			}
		}
	}

	seen := make(map[string]bool)
	for i, a := range c.Agents {
		owner := fmt.Sprintf("agent %q", a.ID)
		if a.ID == "" {
			addf("agent %d has no id", i+1)
			continue
		}
		if seen[a.ID] {
			addf("duplicate agent id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Role == "" {
			addf("%s has no role", owner)
		}
		if _, ok := c.Models[a.Model]; !ok {
			addf("%s uses undefined model %q", owner, a.Model)
		}
		if a.MaxIter < 0 {
			addf("%s has negative max_iter", owner)
		}
		for _, t := range a.Tools {
			checkTool(owner, t)
		}
		checkTemplate(owner, "goal", a.Goal)
	}

	for _, t := range c.Tasks {
		owner := fmt.Sprintf("task %q", t.ID)
		if t.Description == "" {
			addf("%s has no description", owner)
		}
		if t.Agent == "" {
			addf("%s has no agent", owner)
		} else if c.GetAgent(t.Agent) == nil {
			addf("%s uses unknown agent %q", owner, t.Agent)
		}
		for _, name := range t.Tools {
			checkTool(owner, name)
		}
		checkTemplate(owner, "description", t.Description)
		checkTemplate(owner, "expected_output", t.ExpectedOutput)
	}

	for _, name := range slices.Sorted(maps.Keys(c.Models)) {
		if c.Models[name].Model == "" {
			addf("model %q has no model name", name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(c.MCPServers)) {
		if c.MCPServers[name].Command == "" {
			addf("mcp server %q has no command", name)
		}
	}

	if _, err := engine.NewTaskGraph(c.Tasks); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
