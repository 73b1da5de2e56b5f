package agent

import (
	"regexp"
	"strings"

	"Fincrew/internal/tools"
	"Fincrew/pkg/types"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Interpolate replaces {name} placeholders with inputs[name]. Placeholders
// without a value are left untouched.
func Interpolate(template string, inputs map[string]string) string {
	if len(inputs) == 0 {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := inputs[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder names used in template
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

type promptParts struct {
	agent    *types.Agent
	goal     string
	task     string
	expected string
	context  string
	memory   []string
	tools    []tools.Tool
}

func (p promptParts) String() string {
	var sb strings.Builder

	sb.WriteString("You are " + p.agent.Role + ".\n")
	if p.agent.Backstory != "" {
		sb.WriteString(p.agent.Backstory + "\n")
	}
	sb.WriteString("\nYour personal goal is: " + p.goal + "\n\n")

	if toolText := tools.FormatToolsForPrompt(p.tools); toolText != "" {
		sb.WriteString(toolText + "\n")
	}

	sb.WriteString("Current Task: " + p.task + "\n\n")
	sb.WriteString("This is the expected criteria for your final answer: " + p.expected + "\n")
	sb.WriteString("You MUST return the actual complete content as the final answer, not a summary.\n\n")

	if p.context != "" {
		sb.WriteString(p.context)
	}

	if len(p.memory) > 0 {
		sb.WriteString("Relevant notes from earlier in this run:\n")
		for _, m := range p.memory {
			sb.WriteString("- " + m + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Begin! Use the tools available when they help, and give your best final answer.\n")
	return sb.String()
}

const continuePrompt = "\n\nContinue the task using the tool results above. " +
	"Call another tool if you still need information, otherwise give your final answer.\n"
