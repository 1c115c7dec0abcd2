// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package source defines the per-entity input: the entity being annotated,
// an optional analyst comment, and one payload per data source.
package source

import (
	"net"
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/jsonvalue"
)

// FallbackSourceName labels a payload that arrives without a name.
const FallbackSourceName = "Unknown Source"

// Payload is the already-fetched result of one data source.
type Payload struct {
	SourceName  string          `json:"name" yaml:"name"`
	SummaryTags []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Details     jsonvalue.Value `json:"details" yaml:"details"`
}

// Label returns the display name of the payload.
func (p Payload) Label() string {
	if name := strings.TrimSpace(p.SourceName); name != "" {
		return name
	}
	return FallbackSourceName
}

// EntityType selects how an entity value is defanged for display.
type EntityType string

const (
	EntityIP     EntityType = "ip"
	EntityDomain EntityType = "domain"
	EntityURL    EntityType = "url"
	EntityOther  EntityType = "other"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityIP, EntityDomain, EntityURL, EntityOther:
		return true
	}
	return false
}

// Entity is the indicator all payloads of a request describe.
type Entity struct {
	Value string     `json:"value" yaml:"value"`
	Type  EntityType `json:"type,omitempty" yaml:"type,omitempty"`
}

// Resolved returns e with an empty or unknown Type replaced by the detected
// one.
func (e Entity) Resolved() Entity {
	if e.Type.Valid() {
		return e
	}
	e.Type = DetectEntityType(e.Value)
	return e
}

// DetectEntityType guesses the display category of an indicator value.
func DetectEntityType(value string) EntityType {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	switch {
	case v == "":
		return EntityOther
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		return EntityURL
	case net.ParseIP(v) != nil:
		return EntityIP
	case isDomain(v):
		return EntityDomain
	default:
		return EntityOther
	}
}

func isDomain(v string) bool {
	if strings.ContainsAny(v, " /@:") || !strings.Contains(v, ".") {
		return false
	}
	for _, label := range strings.Split(strings.TrimSuffix(v, "."), ".") {
		if label == "" || len(label) > 63 {
			return false
		}
	}
	return true
}

// Request is everything needed to assemble the notes of one entity.
type Request struct {
	Entity  Entity    `json:"entity" yaml:"entity"`
	Comment string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Sources []Payload `json:"sources" yaml:"sources"`
}
