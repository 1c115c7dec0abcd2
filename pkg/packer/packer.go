// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package packer groups flattened sources into capacity-bounded bins.
package packer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/flatten"
)

// Bin is one future note. Items keep placement order.
type Bin struct {
	Items     []flatten.SourceItem
	TotalCost int
}

// Limit holds the capacities used during placement. Bin 0 uses
// FirstBinCapacity, every later bin uses Capacity.
type Limit struct {
	FirstBinCapacity int
	Capacity         int
}

// FirstBinCapacity returns the capacity of bin 0: the room left after the
// leading comment as rendered (surrounding space trimmed), or the full
// capacity when there is no comment.
func FirstBinCapacity(capacity int, comment string) int {
	return capacity - utf8.RuneCountInString(strings.TrimSpace(comment))
}

// NewLimit builds the Limit for a capacity and an optional leading comment.
func NewLimit(capacity int, comment string) Limit {
	return Limit{FirstBinCapacity: FirstBinCapacity(capacity, comment), Capacity: capacity}
}

func (l Limit) capacityOf(index int) int {
	if index == 0 {
		return l.FirstBinCapacity
	}
	return l.Capacity
}

// Pack places items first-fit in order of descending cost; items of equal
// cost keep their input order. A bin whose single item exceeds its capacity
// is the only way a bin ends up over capacity.
func Pack(items []flatten.SourceItem, limit Limit) ([]Bin, error) {
	if limit.Capacity <= 0 {
		return nil, errors.ConfigError("capacity must be positive", nil).
			WithContext("capacity", limit.Capacity)
	}
	if len(items) == 0 {
		return nil, nil
	}

	order := make([]flatten.SourceItem, len(items))
	copy(order, items)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].TotalCost > order[j].TotalCost
	})

	var bins []Bin
	for _, item := range order {
		placed := false
		for i := range bins {
			if bins[i].TotalCost+item.TotalCost <= limit.capacityOf(i) {
				bins[i].Items = append(bins[i].Items, item)
				bins[i].TotalCost += item.TotalCost
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, Bin{Items: []flatten.SourceItem{item}, TotalCost: item.TotalCost})
		}
	}
	return bins, nil
}

// Overfull reports whether bin index is over its capacity. Only a bin with a
// single oversized item can be.
func (l Limit) Overfull(index int, b Bin) bool {
	return b.TotalCost > l.capacityOf(index)
}
