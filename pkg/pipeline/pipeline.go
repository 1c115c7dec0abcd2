// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package pipeline runs one entity through flatten, pack, assemble and
// submit. Each phase finishes for every source or bin before the next one
// starts, and chunk submission is strictly sequential. Independent entities
// may run concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/flatten"
	"github.com/cicd-ai-toolkit/notepack/pkg/observability"
	"github.com/cicd-ai-toolkit/notepack/pkg/output"
	"github.com/cicd-ai-toolkit/notepack/pkg/packer"
	"github.com/cicd-ai-toolkit/notepack/pkg/perf"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

// Options configure a Pipeline.
type Options struct {
	// Budget is the per-source character budget and the note capacity.
	Budget int
	// Title prefixes the position label of every chunk.
	Title   string
	Logger  observability.Logger
	Metrics *observability.Metrics
}

// Result is what one entity produced. On a failed submission it still
// carries the plan and the number of chunks that made it out.
type Result struct {
	RunID     string
	Entity    source.Entity
	Items     []flatten.SourceItem
	Bins      []packer.Bin
	Chunks    []document.Chunk
	Submitted int
}

// Pipeline assembles and submits entity notes.
type Pipeline struct {
	opts     Options
	reporter *output.Reporter
}

// New creates a pipeline. reporter may be nil when only Plan is used.
func New(reporter *output.Reporter, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = observability.NewNopLogger()
	}
	return &Pipeline{opts: opts, reporter: reporter}
}

// Plan runs the pure phases: flatten every source, pack, assemble. It has
// no side effects beyond logging and metrics.
func (p *Pipeline) Plan(req *source.Request) (*Result, error) {
	if p.opts.Budget <= 0 {
		return nil, errors.ConfigError("budget must be positive", nil).
			WithContext("budget", p.opts.Budget)
	}
	if req == nil || len(req.Sources) == 0 {
		return nil, errors.ValidationError("at least one source is required", nil)
	}

	res := &Result{RunID: uuid.NewString(), Entity: req.Entity.Resolved()}
	log := p.opts.Logger.With(
		observability.String("run_id", res.RunID),
		observability.String("entity", res.Entity.Value),
	)

	res.Items = make([]flatten.SourceItem, 0, len(req.Sources))
	for _, payload := range req.Sources {
		item, err := flatten.Flatten(source.Normalize(payload), p.opts.Budget)
		if err != nil {
			return nil, err
		}
		p.opts.Metrics.RecordSource(item.TotalCost, item.IsTruncated)
		if item.IsTruncated {
			log.Warn("source truncated",
				observability.String("source", item.SourceName),
				observability.Int("cost", item.TotalCost),
				observability.Int("budget", p.opts.Budget))
		}
		res.Items = append(res.Items, item)
	}
	log.Debug("sources flattened", observability.Int("sources", len(res.Items)))

	limit := packer.NewLimit(p.opts.Budget, req.Comment)
	bins, err := packer.Pack(res.Items, limit)
	if err != nil {
		return nil, err
	}
	for i, b := range bins {
		if limit.Overfull(i, b) {
			log.Warn("note exceeds capacity",
				observability.Int("bin", i),
				observability.String("source", b.Items[0].SourceName),
				observability.Int("cost", b.TotalCost))
		}
	}
	res.Bins = bins
	p.opts.Metrics.RecordBins(len(bins))
	log.Debug("sources packed", observability.Int("bins", len(bins)))

	res.Chunks = document.Assemble(bins, res.Entity, document.Options{
		Comment: req.Comment,
		Budget:  p.opts.Budget,
		Title:   p.opts.Title,
	})
	log.Debug("chunks assembled", observability.Int("chunks", len(res.Chunks)))
	return res, nil
}

// Run plans req and submits its chunks in order. When submission stops
// early the returned Result reports how many chunks were submitted; they
// are not withdrawn.
func (p *Pipeline) Run(ctx context.Context, req *source.Request) (*Result, error) {
	if p.reporter == nil {
		return nil, errors.ConfigError("pipeline has no reporter", nil)
	}
	start := time.Now()

	res, err := p.Plan(req)
	if err != nil {
		p.opts.Metrics.RecordEntity(false)
		return nil, err
	}
	log := p.opts.Logger.With(
		observability.String("run_id", res.RunID),
		observability.String("entity", res.Entity.Value),
	)

	res.Submitted, err = p.reporter.Report(ctx, res.RunID, res.Chunks)
	p.opts.Metrics.RecordEntity(err == nil)
	if err != nil {
		log.Error("submission incomplete",
			observability.Int("submitted", res.Submitted),
			observability.Int("chunks", len(res.Chunks)),
			observability.Err(err))
		return res, err
	}

	log.Info("entity submitted",
		observability.String("sink", p.reporter.Sink().Name()),
		observability.Int("sources", len(res.Items)),
		observability.Int("chunks", len(res.Chunks)),
		observability.Duration("elapsed", time.Since(start)))
	return res, nil
}

// RunAll runs independent entities on a pool of workers. Results keep the
// order of reqs; an entity that failed before planning has a nil Result.
// The error joins every per-entity failure.
func (p *Pipeline) RunAll(ctx context.Context, reqs []*source.Request, workers int) ([]*Result, error) {
	if len(reqs) == 0 {
		return nil, errors.ValidationError("no entities to process", nil)
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}
	pool, err := perf.NewWorkerPool(workers)
	if err != nil {
		return nil, errors.ConfigError("invalid worker count", err)
	}
	pool.Start()
	defer pool.Stop()

	results := make([]*Result, len(reqs))
	tasks := make([]func(context.Context) error, len(reqs))
	for i, req := range reqs {
		i, req := i, req
		tasks[i] = func(ctx context.Context) error {
			res, err := p.Run(ctx, req)
			results[i] = res
			if err != nil {
				return fmt.Errorf("entity %d (%s): %w", i, entityValue(req), err)
			}
			return nil
		}
	}
	return results, errors.Join(pool.Batch(ctx, tasks)...)
}

func entityValue(req *source.Request) string {
	if req == nil || req.Entity.Value == "" {
		return "unnamed"
	}
	return req.Entity.Value
}
