package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wheel",
	Short: "Cash-secured put recommendation engine",
	Long: `Wheelhouse CLI

Screens the equity universe, filters option chains and scores
cash-secured put candidates into ranked daily recommendations.

Usage:
  go run ./cmd/wheel [command]

Examples:
  go run ./cmd/wheel run
  go run ./cmd/wheel scheduler start
  go run ./cmd/wheel recommendations list
  go run ./cmd/wheel settings get options.dte_min`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
