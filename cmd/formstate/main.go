// Package main is the entry point for the formstate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-formstate/cmd/formstate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "formstate:", err)
		os.Exit(1)
	}
}
