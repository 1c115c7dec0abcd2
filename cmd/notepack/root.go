// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/notepack/pkg/config"
	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/observability"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
	"github.com/cicd-ai-toolkit/notepack/pkg/version"
)

// app carries what every subcommand shares.
type app struct {
	out    io.Writer
	errOut io.Writer

	configFile  string
	projectRoot string
	logLevel    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout, errOut: stderr}

	rootCmd := &cobra.Command{
		Use:   "notepack",
		Short: "Pack enrichment results into size-limited notes",
		Long: `notepack flattens the enrichment results of one entity, packs them into
notes that fit the note size limit and submits the notes so that the first
one is shown on top.`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default $HOME/.notepack/config.yaml and ./.notepack.yaml)")
	pf.StringVar(&a.projectRoot, "project-root", "", "directory holding .notepack.yaml")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newAssembleCmd(a),
		newPreviewCmd(a),
		newOutboxCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// loadConfig loads configuration and applies the flags shared by all
// subcommands. Callers apply their own flags before validating.
func (a *app) loadConfig() (*config.Config, error) {
	loader := config.NewLoader().WithProjectRoot(a.projectRoot)
	if a.configFile != "" {
		loader = loader.WithConfigFile(a.configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Global.LogLevel = a.logLevel
	}
	return cfg, nil
}

func (a *app) logger(cfg *config.Config) observability.Logger {
	return observability.NewLogger(a.errOut, cfg.Global.LogLevel, cfg.Global.LogFormat)
}

// loadRequest reads one request document; "-" reads stdin.
func loadRequest(cmd *cobra.Command, path string) (*source.Request, error) {
	if path != "-" {
		return source.LoadFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, errors.InputError("failed to read stdin", err)
	}
	req, err := source.Decode(data, source.FormatAuto)
	if err != nil {
		return nil, errors.InputError("failed to decode stdin", err)
	}
	return req, nil
}

// signals that end a run early.
var signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
