// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Writer renders each chunk to an io.Writer. Concurrent runs share the
// writer, so whole chunks are written under a lock.
type Writer struct {
	mu       sync.Mutex
	out      io.Writer
	renderer Renderer
}

// NewWriter creates a Writer sink.
func NewWriter(out io.Writer, r Renderer) *Writer {
	return &Writer{out: out, renderer: r}
}

// Name implements Sink.
func (w *Writer) Name() string { return KindStdout }

// Submit implements Sink.
func (w *Writer) Submit(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := w.renderer.Render(s.Chunk)
	if err != nil {
		return fmt.Errorf("render chunk %s: %w", s.Chunk.Label, err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, text); err != nil {
		return fmt.Errorf("write chunk %s: %w", s.Chunk.Label, err)
	}
	return nil
}
