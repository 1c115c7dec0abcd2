// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package flatten

import (
	"strings"
	"unicode/utf8"

	"github.com/cicd-ai-toolkit/notepack/pkg/jsonvalue"
)

// rowOverhead is the ": " separator plus the line break of a rendered
// table row.
const rowOverhead = 3

// ArraySeparator joins the elements of a primitive array.
const ArraySeparator = ", "

// Row is one key/value line of a flat object.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PrimitiveCost is the cost of a primitive rendered at path.
func PrimitiveCost(path, text string) int {
	return textLen(text) + textLen(path)
}

// JoinPrimitives drops ignorable elements of a primitive array and joins the
// rest.
func JoinPrimitives(v jsonvalue.Value) string {
	parts := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		if IsIgnorable(item) {
			continue
		}
		parts = append(parts, item.Text())
	}
	return strings.Join(parts, ArraySeparator)
}

// ArrayCost is the cost of a primitive array rendered at path.
func ArrayCost(path string, v jsonvalue.Value) int {
	return PrimitiveCost(path, JoinPrimitives(v))
}

// ObjectRows returns the rendered rows of a flat object, ignorable members
// dropped and primitive arrays joined.
func ObjectRows(v jsonvalue.Value) []Row {
	rows := make([]Row, 0, v.Len())
	for _, m := range v.Members() {
		switch Classify(m.Value) {
		case Primitive:
			rows = append(rows, Row{Key: m.Key, Value: m.Value.Text()})
		case PrimitiveArray:
			rows = append(rows, Row{Key: m.Key, Value: JoinPrimitives(m.Value)})
		}
	}
	return rows
}

// ObjectCost is the cost of the rows of a flat object.
func ObjectCost(rows []Row) int {
	total := 0
	for _, r := range rows {
		total += textLen(r.Value) + textLen(r.Key) + rowOverhead
	}
	return total
}

func textLen(s string) int {
	return utf8.RuneCountInString(s)
}
