// Package commands provides the CLI commands for jarl.
package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrViolationsFound signals a run that completed normally but found lint
// violations. The main function maps it to exit code 1 without printing.
var ErrViolationsFound = errors.New("violations found")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "jarl",
	Short: "jarl - A linter for R code",
	Long: `jarl checks R files for common mistakes and inefficiencies.

Commands:
  check       Lint files or directories, optionally applying fixes
  rules       List the available lint rules
  init        Create a configuration file interactively

Use "jarl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}
