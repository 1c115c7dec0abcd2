// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cicd-ai-toolkit/notepack/pkg/config"
	"github.com/cicd-ai-toolkit/notepack/pkg/observability"
	"github.com/cicd-ai-toolkit/notepack/pkg/output"
	"github.com/cicd-ai-toolkit/notepack/pkg/pipeline"
	"github.com/cicd-ai-toolkit/notepack/pkg/runctx"
	"github.com/cicd-ai-toolkit/notepack/pkg/sink"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

// assembleFlags holds the flags for the assemble command
type assembleFlags struct {
	comment   string
	budget    int
	format    string
	sink      string
	outboxDir string
	title     string
	workers   int
	timeout   time.Duration
	dryRun    bool
}

func newAssembleCmd(a *app) *cobra.Command {
	var f assembleFlags

	cmd := &cobra.Command{
		Use:   "assemble FILE...",
		Short: "Assemble and submit the notes of one or more entities",
		Long: `Assemble reads one request document per entity (JSON, JSONC or YAML; "-"
reads stdin), packs its sources into notes and submits them in order.

Entities are processed concurrently; the notes of one entity are always
submitted one after another.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runAssemble(cmd, cfg, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.comment, "comment", "", "analyst comment for every entity (overrides the file)")
	fl.IntVar(&f.budget, "budget", 0, "character budget per source and per note")
	fl.StringVarP(&f.format, "format", "f", "", "output format: adf, markdown, html, terminal")
	fl.StringVar(&f.sink, "sink", "", "sink: stdout, outbox, memory")
	fl.StringVar(&f.outboxDir, "outbox-dir", "", "directory of the outbox sink")
	fl.StringVar(&f.title, "title", "", "title of the info panel")
	fl.IntVarP(&f.workers, "workers", "w", 0, "entities processed concurrently")
	fl.DurationVar(&f.timeout, "timeout", 0, "timeout for the whole run (0 keeps the configured value)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "plan and print the notes without submitting them")
	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (f assembleFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("budget") {
		cfg.Budget.Chars = f.budget
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("sink") {
		cfg.Output.Sink = f.sink
	}
	if changed("outbox-dir") {
		cfg.Output.OutboxDir = f.outboxDir
	}
	if changed("title") {
		cfg.Output.Title = f.title
	}
	if changed("workers") {
		cfg.Global.Workers = f.workers
	}
	if changed("timeout") {
		cfg.Global.Timeout = f.timeout
	}
	if f.dryRun {
		cfg.Output.Sink = sink.KindMemory
	}
}

func (a *app) runAssemble(cmd *cobra.Command, cfg *config.Config, f assembleFlags, paths []string) error {
	logger := a.logger(cfg)

	reqs := make([]*source.Request, 0, len(paths))
	for _, path := range paths {
		req, err := loadRequest(cmd, path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("comment") {
			req.Comment = f.comment
		}
		reqs = append(reqs, req)
	}

	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}
	s, err := sink.New(cfg.Output.Sink, sink.Options{
		Out:       a.out,
		Renderer:  formatter,
		OutboxDir: cfg.Output.OutboxDir,
	})
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	p := pipeline.New(output.NewReporter(s, logger, metrics), pipeline.Options{
		Budget:  cfg.Budget.Chars,
		Title:   cfg.Output.Title,
		Logger:  logger,
		Metrics: metrics,
	})

	ctx, cancel := runctx.WithSignalTimeout(cmd.Context(), cfg.Global.Timeout, signals...)
	defer cancel()

	start := time.Now()
	results, runErr := p.RunAll(ctx, reqs, cfg.Global.Workers)

	if f.dryRun {
		for _, res := range results {
			if res == nil {
				continue
			}
			fmt.Fprintln(a.out, output.Preview(res.Entity.Value, res.Chunks))
		}
	}

	snap := metrics.Snapshot()
	logger.Info("run complete",
		observability.String("sink", s.Name()),
		observability.Int64("entities", snap.Entities),
		observability.Int64("entity_failures", snap.EntityFailures),
		observability.Int64("sources", snap.SourcesFlattened),
		observability.Int64("sources_truncated", snap.SourcesTruncated),
		observability.Int64("chunks_submitted", snap.ChunksSubmitted),
		observability.Int64("characters", snap.CharactersPlanned),
		observability.Duration("elapsed", time.Since(start)))
	return runErr
}
