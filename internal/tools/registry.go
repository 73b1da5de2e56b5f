package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Tool interface for all executable tools
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// Registry holds the tools available to a crew. Agents and tasks reference
// tools by name; the registry resolves those names to capabilities.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any tool with the same name
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// GetByNames returns tools matching the given names, in the given order
func (r *Registry) GetByNames(names []string) ([]Tool, error) {
	result := make([]Tool, 0, len(names))
	for _, name := range names {
		tool, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("tool not found: %s", name)
		}
		result = append(result, tool)
	}
	return result, nil
}

// GetByPrefix returns tools that start with the given prefix
func (r *Registry) GetByPrefix(prefix string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0)
	for name, tool := range r.tools {
		// e.g. "filings." matches "filings.latest_10k"
		if len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
			result = append(result, tool)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// ListNames returns all tool names, sorted
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatToolsForPrompt creates a description of available tools for the LLM
func FormatToolsForPrompt(tools []Tool) string {
	if len(tools) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n\n")
	for _, tool := range tools {
		fmt.Fprintf(&sb, "- **%s**: %s\n", tool.Name(), tool.Description())
	}
	sb.WriteString("\nTo use a tool, write your response in this format:\n")
	sb.WriteString("```tool:<tool_name>\n<input for the tool>\n```\n")
	sb.WriteString("\nThe tool output will be provided to you for further processing.\n")
	sb.WriteString("When you have everything you need, reply with your final answer and no tool blocks.\n")
	return sb.String()
}
