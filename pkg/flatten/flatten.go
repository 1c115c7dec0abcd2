// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package flatten

import (
	"strconv"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/jsonvalue"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

// NoDataText is the text of the entry emitted for a source with nothing to
// show.
const NoDataText = "No data available"

// NoDataCost is the fixed cost of the no-data entry.
var NoDataCost = textLen(NoDataText)

// FlatEntry is one rendered row of a source.
type FlatEntry struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	// Value is the primitive text or the joined primitive array.
	Value string `json:"value,omitempty"`
	// Rows is set for FlatObject entries.
	Rows        []Row `json:"rows,omitempty"`
	Cost        int   `json:"cost"`
	Placeholder bool  `json:"placeholder,omitempty"`
}

// SourceItem is the flattened form of one payload. It is not modified after
// Flatten returns.
type SourceItem struct {
	SourceName  string      `json:"source"`
	SummaryTags []string    `json:"tags,omitempty"`
	Entries     []FlatEntry `json:"entries"`
	TotalCost   int         `json:"total_cost"`
	IsTruncated bool        `json:"truncated"`
}

// Flatten walks p.Details depth first and returns its entries in document
// order. An entry is admitted only while the running cost plus its own cost
// stays within budget; a refused entry marks the item truncated, and the walk
// goes on so later, cheaper entries can still fit.
func Flatten(p source.Payload, budget int) (SourceItem, error) {
	if budget <= 0 {
		return SourceItem{}, errors.ConfigError("budget must be positive", nil).
			WithContext("budget", budget)
	}

	w := &walker{budget: budget}
	w.visit("", p.Details)

	item := SourceItem{
		SourceName:  p.Label(),
		SummaryTags: append([]string(nil), p.SummaryTags...),
		Entries:     w.entries,
		TotalCost:   w.running,
		IsTruncated: w.truncated,
	}
	if len(item.Entries) == 0 {
		item.Entries = []FlatEntry{{Kind: Primitive, Value: NoDataText, Cost: NoDataCost, Placeholder: true}}
		item.TotalCost = NoDataCost
	}
	return item, nil
}

// walker carries the accumulator of a single Flatten call.
type walker struct {
	budget    int
	running   int
	truncated bool
	entries   []FlatEntry
}

func (w *walker) visit(path string, v jsonvalue.Value) {
	switch kind := Classify(v); kind {
	case Ignorable:
		return
	case Primitive:
		text := v.Text()
		w.admit(FlatEntry{Path: path, Kind: kind, Value: text, Cost: PrimitiveCost(path, text)})
	case PrimitiveArray:
		joined := JoinPrimitives(v)
		w.admit(FlatEntry{Path: path, Kind: kind, Value: joined, Cost: PrimitiveCost(path, joined)})
	case FlatObject:
		rows := ObjectRows(v)
		w.admit(FlatEntry{Path: path, Kind: kind, Rows: rows, Cost: ObjectCost(rows)})
	case Nested:
		w.descend(path, v)
	}
}

func (w *walker) descend(path string, v jsonvalue.Value) {
	switch v.Kind() {
	case jsonvalue.KindObject:
		for _, m := range v.Members() {
			w.visit(joinPath(path, m.Key), m.Value)
		}
	case jsonvalue.KindArray:
		items := v.Items()
		if len(items) == 1 {
			w.visit(path, items[0])
			return
		}
		for i, item := range items {
			w.visit(joinPath(path, strconv.Itoa(i)), item)
		}
	}
}

func (w *walker) admit(e FlatEntry) {
	if w.running+e.Cost > w.budget {
		w.truncated = true
		return
	}
	w.running += e.Cost
	w.entries = append(w.entries, e)
}

func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}
