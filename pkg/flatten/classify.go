// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package flatten turns one source payload into an ordered list of
// character-costed rows under a per-source budget.
package flatten

import (
	"regexp"
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/jsonvalue"
)

// Kind is the structural class of a value.
type Kind int

const (
	// Ignorable values are never rendered.
	Ignorable Kind = iota
	// Primitive is a string, number or boolean.
	Primitive
	// PrimitiveArray is an array of primitives, rendered as one joined row.
	PrimitiveArray
	// FlatObject is a one-level object of primitives, rendered as a table.
	FlatObject
	// Nested needs further descent.
	Nested
)

func (k Kind) String() string {
	switch k {
	case Ignorable:
		return "ignorable"
	case Primitive:
		return "primitive"
	case PrimitiveArray:
		return "primitive_array"
	case FlatObject:
		return "flat_object"
	case Nested:
		return "nested"
	default:
		return "unknown"
	}
}

// minFlatObjectMembers is the smallest object rendered as a table. A
// single-member object reads better as one dotted path row.
const minFlatObjectMembers = 2

var (
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	imageDataPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
)

// Classify returns the structural class of v. It never fails: anything not
// recognized is Nested.
func Classify(v jsonvalue.Value) Kind {
	if IsIgnorable(v) {
		return Ignorable
	}
	switch v.Kind() {
	case jsonvalue.KindString, jsonvalue.KindNumber, jsonvalue.KindBool:
		return Primitive
	case jsonvalue.KindArray:
		if isPrimitiveArray(v) {
			return PrimitiveArray
		}
	case jsonvalue.KindObject:
		if isFlatObject(v) {
			return FlatObject
		}
	}
	return Nested
}

// IsIgnorable reports whether v carries nothing worth rendering. An array is
// ignorable when it is empty or holds only ignorable elements.
func IsIgnorable(v jsonvalue.Value) bool {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return true
	case jsonvalue.KindArray:
		for _, item := range v.Items() {
			if !IsIgnorable(item) {
				return false
			}
		}
		return true
	case jsonvalue.KindString:
		s := strings.TrimSpace(v.Text())
		return s == "" || imageDataPattern.MatchString(s) || hexColorPattern.MatchString(s)
	}
	return false
}

func isPrimitiveArray(v jsonvalue.Value) bool {
	for _, item := range v.Items() {
		if !IsIgnorable(item) && !item.IsScalar() {
			return false
		}
	}
	return true
}

func isFlatObject(v jsonvalue.Value) bool {
	kept := 0
	for _, m := range v.Members() {
		switch Classify(m.Value) {
		case Ignorable:
			continue
		case Primitive, PrimitiveArray:
			kept++
		default:
			return false
		}
	}
	return kept >= minFlatObjectMembers
}
