// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import "sync/atomic"

// Metrics counts pipeline activity for one process. Safe for concurrent
// use; a nil *Metrics records nothing.
type Metrics struct {
	entities          atomic.Int64
	entityFailures    atomic.Int64
	sourcesFlattened  atomic.Int64
	sourcesTruncated  atomic.Int64
	binsPacked        atomic.Int64
	chunksSubmitted   atomic.Int64
	submitFailures    atomic.Int64
	charactersPlanned atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Entities          int64 `json:"entities"`
	EntityFailures    int64 `json:"entity_failures"`
	SourcesFlattened  int64 `json:"sources_flattened"`
	SourcesTruncated  int64 `json:"sources_truncated"`
	BinsPacked        int64 `json:"bins_packed"`
	ChunksSubmitted   int64 `json:"chunks_submitted"`
	SubmitFailures    int64 `json:"submit_failures"`
	CharactersPlanned int64 `json:"characters_planned"`
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordEntity records one finished entity run.
func (m *Metrics) RecordEntity(success bool) {
	if m == nil {
		return
	}
	m.entities.Add(1)
	if !success {
		m.entityFailures.Add(1)
	}
}

// RecordSource records one flattened source and its cost.
func (m *Metrics) RecordSource(cost int, truncated bool) {
	if m == nil {
		return
	}
	m.sourcesFlattened.Add(1)
	m.charactersPlanned.Add(int64(cost))
	if truncated {
		m.sourcesTruncated.Add(1)
	}
}

// RecordBins records the bins produced for one entity.
func (m *Metrics) RecordBins(n int) {
	if m == nil {
		return
	}
	m.binsPacked.Add(int64(n))
}

// RecordSubmission records one chunk submission attempt.
func (m *Metrics) RecordSubmission(success bool) {
	if m == nil {
		return
	}
	if success {
		m.chunksSubmitted.Add(1)
		return
	}
	m.submitFailures.Add(1)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Entities:          m.entities.Load(),
		EntityFailures:    m.entityFailures.Load(),
		SourcesFlattened:  m.sourcesFlattened.Load(),
		SourcesTruncated:  m.sourcesTruncated.Load(),
		BinsPacked:        m.binsPacked.Load(),
		ChunksSubmitted:   m.chunksSubmitted.Load(),
		SubmitFailures:    m.submitFailures.Load(),
		CharactersPlanned: m.charactersPlanned.Load(),
	}
}
