/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"fmt"
	"os"

	"Fincrew/internal/tools"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file.pdf]",
	Short: "Print the normalized text of a document",
	Long: `Extract prints the text the agents see when they read a document:
pages without text are skipped and blank lines are collapsed.

Examples:
  fincrew extract
  fincrew extract reports/q1.pdf > q1.txt`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := tools.DefaultDocument
		if len(args) == 1 {
			path = args[0]
		}

		text, err := tools.NewDocumentTool().Extract(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if text == "" {
			fmt.Fprintln(os.Stderr, "No text found in document.")
			return
		}
		fmt.Print(text)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
