package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/notepack/pkg/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display detailed version information including build date, git commit, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Info()
			fmt.Fprintf(a.out, "notepack version: %s\n", info["version"])
			fmt.Fprintf(a.out, "  build date: %s\n", info["buildDate"])
			fmt.Fprintf(a.out, "  git commit: %s\n", info["gitCommit"])
			fmt.Fprintf(a.out, "  go version: %s\n", info["goVersion"])
		},
	}
}
