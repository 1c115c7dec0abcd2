// Package main is the entry point for the notepack CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code. Errors
// are printed to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
