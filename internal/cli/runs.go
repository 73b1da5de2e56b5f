/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"Fincrew/internal/memory"

	"github.com/spf13/cobra"
)

var showFull bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage archived runs",
	Long:  `List, view, search and prune the runs saved after every analysis.`,
}

func openArchive() *memory.Archive {
	return memory.NewArchive(loadSettings().RunsDir())
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved runs",
	Run: func(cmd *cobra.Command, args []string) {
		runs, err := openArchive().List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			fmt.Println("No saved runs found.")
			fmt.Println("Run an analysis to create one.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tDOCUMENT\tTASKS\tLAST UPDATED")
		fmt.Fprintln(w, "--\t------\t--------\t-----\t------------")

		for _, r := range runs {
			ago := time.Since(r.UpdatedAt).Round(time.Minute)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s ago\n", r.ShortID(), r.Status, truncateStr(r.FilePath, 40), len(r.Results), ago)
		}
		w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the reports of a run",
	Long: `Show the reports of a run. The ID may be shortened to any unique prefix,
or given as "latest" for the most recent run.

Use --full to display complete reports instead of truncated.

Examples:
  fincrew runs show 0b9f6a1e
  fincrew runs show 0b9f6a1e --full
  fincrew runs show latest`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		archive := openArchive()
		var run *memory.Run
		var err error
		if args[0] == "latest" {
			run, err = archive.Latest()
		} else {
			run, err = archive.Load(args[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading run: %v\n", err)
			os.Exit(1)
		}

		fmt.Println()
		fmt.Println("╔═══════════════════════════════════════════════════════════╗")
		fmt.Printf("║  📋 Run: %-48s ║\n", truncateStr(run.ID, 48))
		fmt.Printf("║  📄 Document: %-43s ║\n", truncateStr(run.FilePath, 43))
		fmt.Printf("║  💬 Query: %-46s ║\n", truncateStr(run.Query, 46))
		fmt.Printf("║  🕐 Created: %-44s ║\n", run.CreatedAt.Format("Jan 02 15:04"))
		fmt.Printf("║  ✅ Status: %-45s ║\n", run.Status)
		fmt.Println("╚═══════════════════════════════════════════════════════════╝")
		if run.Error != "" {
			fmt.Printf("\n%s\n", ColorText("Error: "+run.Error, ColorRed))
		}
		fmt.Println()

		for i, r := range run.Results {
			fmt.Printf("┌──────────────────────────────────────────────────────────────┐\n")
			fmt.Printf("│ %s %d. [%s] %s\n", GetAgentEmoji(i), i+1, r.TaskID, r.Role)
			fmt.Printf("│ 🕐 %s  🔁 %d iterations\n", r.FinishedAt.Format("15:04:05"), r.Iterations)
			fmt.Printf("├──────────────────────────────────────────────────────────────┤\n")

			content := r.Output
			if !showFull && len(content) > 300 {
				content = content[:300] + "\n... [truncated - use --full to see complete content]"
			}
			for _, line := range strings.Split(content, "\n") {
				for _, w := range wordWrap(line, 60) {
					fmt.Printf("│ %s\n", w)
				}
			}
			fmt.Printf("└──────────────────────────────────────────────────────────────┘\n\n")
		}
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		archive := openArchive()
		run, err := archive.Load(args[0])
		if err == nil {
			err = archive.Delete(run.ID)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting run: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s deleted.\n", run.ID)
	},
}

var runsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove expired and excess runs",
	Long: fmt.Sprintf(`Remove runs older than %d days and everything beyond the newest %d.`,
		memory.ExpiryDays, memory.MaxRuns),
	Run: func(cmd *cobra.Command, args []string) {
		removed, err := openArchive().Cleanup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error cleaning runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d runs.\n", len(removed))
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	runsCmd.AddCommand(runsCleanCmd)

	runsShowCmd.Flags().BoolVarP(&showFull, "full", "f", false, "Show complete reports")
}
