// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package sink provides the destinations assembled chunks are submitted to.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

// Sink kinds accepted by New.
const (
	KindStdout = "stdout"
	KindOutbox = "outbox"
	KindMemory = "memory"
)

// Kinds lists every sink kind.
var Kinds = []string{KindStdout, KindOutbox, KindMemory}

// Submission is one chunk handed to a sink.
type Submission struct {
	// RunID groups the chunks of one entity.
	RunID string
	// Index is the submission order within the run, starting at 0.
	Index int
	Chunk document.Chunk
}

// Sink accepts chunks one at a time. Submit returns only after the chunk is
// stored, so a caller that awaits each call controls the final order.
type Sink interface {
	Name() string
	Submit(ctx context.Context, s Submission) error
}

// Renderer turns a chunk into display text.
type Renderer interface {
	Render(c document.Chunk) (string, error)
}

// Options configure New.
type Options struct {
	Out       io.Writer
	Renderer  Renderer
	OutboxDir string
}

// New builds a sink by kind.
func New(kind string, opts Options) (Sink, error) {
	switch kind {
	case KindStdout:
		if opts.Renderer == nil {
			return nil, fmt.Errorf("sink %s: renderer is required", kind)
		}
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return NewWriter(out, opts.Renderer), nil
	case KindOutbox:
		return NewOutbox(opts.OutboxDir)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", kind)
	}
}
