// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/notepack/pkg/output"
	"github.com/cicd-ai-toolkit/notepack/pkg/pipeline"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		budget int
		format string
		render bool
	)

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show how an entity would be split into notes",
		Long: `Preview plans the notes of one entity without submitting anything and
prints one row per note in submission order. With --render every note body
is printed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				cfg.Budget.Chars = budget
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			req, err := loadRequest(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := pipeline.New(nil, pipeline.Options{
				Budget: cfg.Budget.Chars,
				Title:  cfg.Output.Title,
				Logger: a.logger(cfg),
			}).Plan(req)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, output.Preview(res.Entity.Value, res.Chunks))
			if !render {
				return nil
			}
			formatter, err := output.NewFormatter(cfg.Output.Format)
			if err != nil {
				return err
			}
			for _, c := range res.Chunks {
				text, err := formatter.Render(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "\n--- %s ---\n%s\n", c.Label, text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&budget, "budget", 0, "character budget per source and per note")
	cmd.Flags().StringVarP(&format, "format", "f", "", "format used by --render")
	cmd.Flags().BoolVar(&render, "render", false, "print every note body")
	return cmd
}
