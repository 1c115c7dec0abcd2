// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package document turns packed bins into labelled chunks with a block-tree
// body, ready for submission in the returned order.
package document

import (
	"fmt"
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/flatten"
	"github.com/cicd-ai-toolkit/notepack/pkg/packer"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

// Options control chunk assembly.
type Options struct {
	// Comment is attached to the chunk built from bin 0.
	Comment string
	// Budget is the per-source character limit named in truncation
	// warnings.
	Budget int
	// Title prefixes the position label in the info panel.
	Title string
}

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Enrichment"

// Chunk is one note to submit.
type Chunk struct {
	Position       int      `json:"position"`
	Total          int      `json:"total"`
	Label          string   `json:"label"`
	LeadingComment string   `json:"comment,omitempty"`
	Entity         string   `json:"entity"`
	Sources        []string `json:"sources"`
	Cost           int      `json:"cost"`
	Body           Node     `json:"body"`
}

// PositionLabel formats "K of N".
func PositionLabel(position, total int) string {
	return fmt.Sprintf("%d of %d", position, total)
}

// Assemble emits one chunk per bin, last-created bin first. The chunk at
// index i is labelled "(N-i) of N", so bin 0 becomes "1 of N" and is the
// only chunk that carries the comment.
func Assemble(bins []packer.Bin, entity source.Entity, opts Options) []Chunk {
	n := len(bins)
	if n == 0 {
		return nil
	}
	entity = entity.Resolved()
	defanged := Defang(entity.Value, entity.Type)
	comment := strings.TrimSpace(opts.Comment)
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	chunks := make([]Chunk, 0, n)
	for i := 0; i < n; i++ {
		bin := bins[n-1-i]
		position := n - i
		c := Chunk{
			Position: position,
			Total:    n,
			Label:    PositionLabel(position, n),
			Entity:   defanged,
			Cost:     bin.TotalCost,
		}
		if i == n-1 {
			c.LeadingComment = comment
		}
		for _, item := range bin.Items {
			c.Sources = append(c.Sources, item.SourceName)
		}
		c.Body = buildBody(c, title, bin, opts.Budget)
		chunks = append(chunks, c)
	}
	return chunks
}

func buildBody(c Chunk, title string, bin packer.Bin, budget int) Node {
	var blocks []Node
	if c.LeadingComment != "" {
		blocks = append(blocks, Paragraph(Text(c.LeadingComment)))
	}
	blocks = append(blocks,
		Panel(PanelInfo, Paragraph(Strong(fmt.Sprintf("%s (%s)", title, c.Label)))),
		Heading(2, Code(c.Entity)),
	)
	for _, item := range bin.Items {
		blocks = append(blocks, sourceBlocks(item, budget)...)
	}
	return Doc(blocks...)
}

func sourceBlocks(item flatten.SourceItem, budget int) []Node {
	blocks := []Node{Heading(3, Text(item.SourceName))}
	if len(item.SummaryTags) > 0 {
		blocks = append(blocks, Paragraph(Strong("Tags: "), Text(strings.Join(item.SummaryTags, ", "))))
	}
	if item.IsTruncated {
		blocks = append(blocks, Panel(PanelWarning, Paragraph(Text(TruncationWarning(budget)))))
	}
	for _, e := range item.Entries {
		blocks = append(blocks, entryBlocks(e)...)
	}
	return blocks
}

// TruncationWarning is the text of the panel shown above a truncated
// source.
func TruncationWarning(budget int) string {
	if budget <= 0 {
		return "Results truncated: this source exceeded the character limit."
	}
	return fmt.Sprintf("Results truncated: this source exceeded the %d character limit.", budget)
}

func entryBlocks(e flatten.FlatEntry) []Node {
	if e.Placeholder {
		return []Node{Paragraph(Text(e.Value))}
	}
	switch e.Kind {
	case flatten.FlatObject:
		rows := make([]Node, 0, len(e.Rows))
		for _, r := range e.Rows {
			rows = append(rows, TableRow(TableHeader(Text(r.Key)), TableCell(Text(r.Value))))
		}
		if e.Path == "" {
			return []Node{Table(rows...)}
		}
		return []Node{Paragraph(Strong(e.Path)), Table(rows...)}
	default:
		if e.Path == "" {
			return []Node{Paragraph(Text(e.Value))}
		}
		return []Node{Paragraph(Strong(e.Path+": "), Text(e.Value))}
	}
}
