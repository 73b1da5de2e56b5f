package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ```tool:<name>\n<input>\n```
var toolCallPattern = regexp.MustCompile("(?s)```tool:([a-zA-Z_][a-zA-Z0-9_.\\-]*)\n(.*?)```")

// ToolCall represents a parsed tool invocation from LLM output
type ToolCall struct {
	Name  string
	Input string
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	ToolName string
	Output   string
	Error    error
}

// ParseToolCalls extracts tool calls from LLM response
func ParseToolCalls(response string) []ToolCall {
	matches := toolCallPattern.FindAllStringSubmatch(response, -1)

	var calls []ToolCall
	for _, match := range matches {
		if len(match) >= 3 {
			calls = append(calls, ToolCall{
				Name:  strings.TrimSpace(match[1]),
				Input: strings.TrimSpace(match[2]),
			})
		}
	}
	return calls
}

// ExecuteToolCalls runs the parsed calls against the permitted tool set.
// Calls naming a tool outside the set produce an error result rather than
// running anything.
func ExecuteToolCalls(ctx context.Context, permitted []Tool, calls []ToolCall) []ToolResult {
	byName := make(map[string]Tool, len(permitted))
	for _, t := range permitted {
		byName[t.Name()] = t
	}

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		tool, ok := byName[call.Name]
		if !ok {
			results = append(results, ToolResult{
				ToolName: call.Name,
				Error:    fmt.Errorf("tool not available to this agent: %s", call.Name),
			})
			continue
		}

		output, err := tool.Execute(ctx, call.Input)
		results = append(results, ToolResult{
			ToolName: call.Name,
			Output:   output,
			Error:    err,
		})
	}

	return results
}

// FormatToolResults creates a string describing tool results for LLM
func FormatToolResults(results []ToolResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n=== Tool Results ===\n")

	for _, r := range results {
		fmt.Fprintf(&sb, "\n[%s]:\n", r.ToolName)
		if r.Error != nil {
			fmt.Fprintf(&sb, "ERROR: %v\n", r.Error)
		} else {
			sb.WriteString(r.Output)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
