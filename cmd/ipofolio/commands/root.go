package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ipofolio",
	Short: "IPO scoring and budget allocation",
	Long: `ipofolio scores upcoming share offerings, allocates a cash budget
across them in whole lots, and explains every allocation it makes.

Usage:
  go run ./cmd/ipofolio [command]

Examples:
  go run ./cmd/ipofolio allocate --budget 100000
  go run ./cmd/ipofolio candidates
  go run ./cmd/ipofolio fetch-gmp
  go run ./cmd/ipofolio api
  go run ./cmd/ipofolio schedule`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
