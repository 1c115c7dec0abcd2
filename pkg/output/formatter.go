// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package output provides chunk formatting and submission.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

// Output formats.
const (
	FormatADF      = "adf"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatTerminal = "terminal"
)

// Formats lists every supported format.
var Formats = []string{FormatADF, FormatMarkdown, FormatHTML, FormatTerminal}

// Formatter renders chunks in one format.
type Formatter struct {
	format string
}

// NewFormatter creates a formatter. An empty format means markdown.
func NewFormatter(format string) (*Formatter, error) {
	if format == "" {
		format = FormatMarkdown
	}
	switch format {
	case FormatADF, FormatMarkdown, FormatHTML, FormatTerminal:
		return &Formatter{format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Format returns the format name.
func (f *Formatter) Format() string {
	return f.format
}

// Render renders one chunk.
func (f *Formatter) Render(c document.Chunk) (string, error) {
	switch f.format {
	case FormatADF:
		data, err := json.MarshalIndent(c.Body, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal adf: %w", err)
		}
		return string(data), nil
	case FormatHTML:
		return renderHTML(Markdown(c.Body))
	case FormatTerminal:
		return Terminal(c.Body), nil
	default:
		return Markdown(c.Body), nil
	}
}

var (
	htmlRendererInstance goldmark.Markdown
	htmlRendererOnce     sync.Once
)

func htmlRenderer() goldmark.Markdown {
	htmlRendererOnce.Do(func() {
		htmlRendererInstance = goldmark.New(goldmark.WithExtensions(
			// GFM without Linkify: payload URLs must not become live links.
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		))
	})
	return htmlRendererInstance
}

func renderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer().Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
