/*
Copyright © 2026 Fincrew Authors
*/
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fincrew",
	Short: "Financial document analysis with a crew of LLM agents",
	Long: `Fincrew runs a crew of LLM agents over a financial document. A verifier
checks the document, an analyst studies it, and an investment advisor and a
risk assessor each write a report from the analysis.

Examples:
  fincrew run --file data/sample.pdf      Analyze a document
  fincrew validate crew.yaml              Validate a crew file
  fincrew runs list                       List archived runs
  fincrew --help                          Show this help message`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.fincrew.yaml over $HOME/.fincrew.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
