// Package main implements the jarl CLI, a linter for R code.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jarl-lint/jarl/cmd/jarl/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`jarl version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrViolationsFound) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
