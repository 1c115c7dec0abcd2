// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
)

// Format is the encoding of a request document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. .json and .jsonc
// are JSON (comments and trailing commas allowed), .yaml and .yml are YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// LoadFile reads and decodes one request document.
func LoadFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InputError("failed to read request", err).WithContext("path", path)
	}
	req, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.InputError("failed to decode "+path, err).WithContext("path", path)
	}
	return req, nil
}

// Decode parses a request document. With FormatAuto, input whose first
// non-space byte opens a JSON object is treated as JSON, anything else as
// YAML.
func Decode(data []byte, format Format) (*Request, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var req Request
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("parsing json request: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("parsing yaml request: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported request format %q", format)
	}

	if req.Entity.Type != "" && !req.Entity.Type.Valid() {
		return nil, fmt.Errorf("unknown entity type %q (want ip, domain, url or other)", req.Entity.Type)
	}
	req.Entity = req.Entity.Resolved()
	return &req, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || bytes.HasPrefix(trimmed, []byte("//")) || bytes.HasPrefix(trimmed, []byte("/*"))) {
		return FormatJSON
	}
	return FormatYAML
}
