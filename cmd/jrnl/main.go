// Package main is the entry point for the jrnl CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/thoreinstein/jrnl/cmd/jrnl/commands"
	"github.com/thoreinstein/jrnl/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err and its suggestion, returning the process exit code.
func report(w io.Writer, err error) int {
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return errors.ExitUser
	}

	fmt.Fprintf(w, "Error: %v\n", exitErr)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(w, "Hint: %s\n", exitErr.Suggestion)
	}
	return exitErr.Code
}
