// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package sink

import (
	"context"
	"sync"
)

// Memory keeps submissions in process. Used for dry runs and tests.
type Memory struct {
	mu          sync.Mutex
	submissions []Submission
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Name implements Sink.
func (m *Memory) Name() string { return KindMemory }

// Submit implements Sink.
func (m *Memory) Submit(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, s)
	return nil
}

// Submissions returns a copy of everything submitted so far, in order.
func (m *Memory) Submissions() []Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Submission, len(m.submissions))
	copy(out, m.submissions)
	return out
}

// Run returns the submissions of one run, in order.
func (m *Memory) Run(runID string) []Submission {
	var out []Submission
	for _, s := range m.Submissions() {
		if s.RunID == runID {
			out = append(out, s)
		}
	}
	return out
}
