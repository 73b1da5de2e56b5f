/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"fmt"
	"os"
	"strings"

	"Fincrew/internal/engine"
	"Fincrew/internal/parser"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [crew.yaml]",
	Short: "Validate a crew file",
	Long: `Validate checks a crew YAML file for syntax errors and structural
issues without executing it: unknown agents, models or tools, unknown
placeholders, and task dependency cycles. Without a file the built-in
crew is checked.

Tools named <server>.<tool> are accepted for servers declared under
mcp_servers; the servers are not started.

Examples:
  fincrew validate
  fincrew validate crews/earnings.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := ""
		if len(args) == 1 {
			path = args[0]
			fmt.Printf("Validating crew: %s\n", path)
		} else {
			fmt.Println("Validating built-in crew")
		}

		c, err := loadCrew(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing crew: %v\n", err)
			os.Exit(1)
		}

		registry, _ := buildRegistry(loadSettings())
		if err := parser.Validate(c, registry.ListNames()); err != nil {
			fmt.Fprintln(os.Stderr, ColorText("✗ Crew is invalid:", ColorRed))
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(os.Stderr, "  - %s\n", line)
			}
			os.Exit(1)
		}

		graph, err := engine.NewTaskGraph(c.Tasks)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(ColorText("✓ Crew is valid", ColorGreen))
		fmt.Printf("  Agents: %d  Tasks: %d  Process: %s\n\n", len(c.Agents), len(c.Tasks), c.Process)
		fmt.Println("Execution order:")
		for i, id := range graph.TopologicalOrder() {
			t := c.GetTask(id)
			deps := ""
			if len(t.Context) > 0 {
				deps = ColorDim + " ← " + strings.Join(t.Context, ", ") + ColorReset
			}
			fmt.Printf("  %d. %s [%s]%s\n", i+1, id, t.Agent, deps)
		}
		if verbose {
			fmt.Println()
			printPlan(c, graph)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
