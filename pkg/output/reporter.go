// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"context"
	"fmt"
	"time"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/observability"
	"github.com/cicd-ai-toolkit/notepack/pkg/sink"
)

// Reporter submits the chunks of one run to a sink.
type Reporter struct {
	sink    sink.Sink
	logger  observability.Logger
	metrics *observability.Metrics
}

// NewReporter creates a reporter. logger and metrics may be nil.
func NewReporter(s sink.Sink, logger observability.Logger, metrics *observability.Metrics) *Reporter {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Reporter{sink: s, logger: logger, metrics: metrics}
}

// Sink returns the destination of the reporter.
func (r *Reporter) Sink() sink.Sink {
	return r.sink
}

// Report submits chunks in slice order, one at a time, each submission
// finishing before the next starts. The note store shows the most recent
// note first, so this order decides what readers see on top.
//
// On failure or cancellation the chunks already submitted stay in place;
// the returned count says how many there were.
func (r *Reporter) Report(ctx context.Context, runID string, chunks []document.Chunk) (int, error) {
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return i, errors.TimeoutError(
				fmt.Sprintf("submission stopped after %d of %d chunks", i, len(chunks)), err).
				WithContext("run_id", runID).
				WithContext("submitted", i)
		}

		start := time.Now()
		err := r.sink.Submit(ctx, sink.Submission{RunID: runID, Index: i, Chunk: c})
		r.metrics.RecordSubmission(err == nil)
		if err != nil {
			r.logger.Error("chunk submission failed",
				observability.String("run_id", runID),
				observability.String("chunk", c.Label),
				observability.Int("submitted", i),
				observability.Err(err))
			return i, errors.SubmitError(
				fmt.Sprintf("submit chunk %s to %s (%d of %d already submitted)", c.Label, r.sink.Name(), i, len(chunks)), err).
				WithContext("run_id", runID).
				WithContext("submitted", i)
		}
		r.logger.Debug("chunk submitted",
			observability.String("run_id", runID),
			observability.String("chunk", c.Label),
			observability.Int("cost", c.Cost),
			observability.Duration("elapsed", time.Since(start)))
	}
	return len(chunks), nil
}
