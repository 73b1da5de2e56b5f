/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"fmt"
	"os"

	"Fincrew/internal/vectorstore"

	"github.com/spf13/cobra"
)

var searchLimit int

var runsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search past reports semantically",
	Long: `Search through the reports of past runs using semantic similarity.

Requires an embedding provider (fincrew config --embedding ollama). With
Ollama, pull an embedding model first (e.g., nomic-embed-text).

Examples:
  fincrew runs search "liquidity risk"
  fincrew runs search "dividend coverage" --limit 5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := args[0]
		cfg := loadSettings()

		ef, err := embeddingFunc(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Println("\n💡 Configure an embedding provider first:")
			fmt.Println("   fincrew config --embedding ollama")
			os.Exit(1)
		}

		store, err := vectorstore.Open(cfg.VectorDir(), ef)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Could not open vector store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		fmt.Printf("🔍 Searching for: \"%s\"\n\n", query)

		results, err := store.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
			os.Exit(1)
		}

		if len(results) == 0 {
			fmt.Println("No matching reports found.")
			fmt.Println("Run some analyses first to build up history.")
			return
		}

		for i, r := range results {
			fmt.Printf("─── Result %d (%.1f%% match) ───\n", i+1, r.Score*100)
			fmt.Printf("Run: %s\n", r.Metadata["run_id"])
			fmt.Printf("Task: %s (%s)\n", r.Metadata["task_id"], r.Metadata["agent_id"])
			if q := r.Metadata["query"]; q != "" {
				fmt.Printf("Query: %s\n", q)
			}

			content := r.Content
			if len(content) > 300 {
				content = content[:300] + "..."
			}
			fmt.Printf("\n%s\n\n", content)
		}
	},
}

func init() {
	runsCmd.AddCommand(runsSearchCmd)
	runsSearchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 3, "Number of results to return")
}
