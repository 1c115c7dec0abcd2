// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package jsonvalue provides an immutable JSON value that keeps object
// members in document order.
//
// encoding/json decodes objects into Go maps, which lose member order. The
// order of a source payload is part of how it is displayed, so payloads are
// decoded into Value instead.
package jsonvalue

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
//
// Values are never modified after construction; slices returned by Items
// and Members must be treated as read-only.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or string content
	items   []Value
	members []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number returns a JSON number from its literal text, e.g. "42" or "1.5e3".
func Number(literal string) Value { return Value{kind: KindNumber, text: literal} }

// Int returns a JSON number holding n.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Array returns a JSON array. Array() is an empty array, not null.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object with members in the given order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// M is shorthand for building a Member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	return v.kind == KindBool || v.kind == KindNumber || v.kind == KindString
}

// Bool returns the boolean held by v, false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.boolean }

// Text renders a scalar as display text: strings verbatim, numbers as their
// literal, booleans as true/false. Null and containers render as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.text
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns the elements of an array, nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Members returns the members of an object in document order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.members
}

// Get returns the first member named key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of the object v with key set to val. An existing
// member keeps its position; a new member is appended. v is not modified.
func (v Value) With(key string, val Value) Value {
	members := make([]Member, 0, len(v.members)+1)
	replaced := false
	for _, m := range v.members {
		if m.Key == key && !replaced {
			members = append(members, Member{Key: key, Value: val})
			replaced = true
			continue
		}
		members = append(members, m)
	}
	if !replaced {
		members = append(members, Member{Key: key, Value: val})
	}
	return Object(members...)
}

// Equal reports whether a and b hold the same JSON value, including member
// order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber, KindString:
		return a.text == b.text
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// FromAny converts a value produced by encoding/json (or built by hand) into
// a Value. Map keys are sorted because Go maps carry no order.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case fmt.Stringer:
		// json.Number and friends
		return Number(t.String())
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case float64:
		return Number(strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Array(items...)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: FromAny(t[k])}
		}
		return Object(members...)
	default:
		return String(fmt.Sprint(t))
	}
}
