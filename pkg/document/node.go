// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package document

import "strings"

// Node types of the block tree. The names follow the Atlassian document
// format so a note store that speaks it can take a body unchanged.
const (
	TypeDoc         = "doc"
	TypeHeading     = "heading"
	TypeParagraph   = "paragraph"
	TypePanel       = "panel"
	TypeTable       = "table"
	TypeTableRow    = "tableRow"
	TypeTableHeader = "tableHeader"
	TypeTableCell   = "tableCell"
	TypeText        = "text"
)

// Mark types for text nodes.
const (
	MarkStrong = "strong"
	MarkCode   = "code"
)

// Panel types.
const (
	PanelInfo    = "info"
	PanelNote    = "note"
	PanelWarning = "warning"
)

// adfVersion is the document format version carried on the root node.
const adfVersion = 1

// Node is one element of a chunk body.
type Node struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark decorates a text node.
type Mark struct {
	Type string `json:"type"`
}

// Doc is the root of a body.
func Doc(blocks ...Node) Node {
	return Node{Type: TypeDoc, Version: adfVersion, Content: blocks}
}

// Heading is a heading block of the given level (1-6).
func Heading(level int, inline ...Node) Node {
	return Node{Type: TypeHeading, Attrs: map[string]any{"level": level}, Content: inline}
}

// Paragraph is a block of inline text nodes.
func Paragraph(inline ...Node) Node {
	return Node{Type: TypeParagraph, Content: inline}
}

// Panel is a colored callout holding blocks.
func Panel(panelType string, blocks ...Node) Node {
	return Node{Type: TypePanel, Attrs: map[string]any{"panelType": panelType}, Content: blocks}
}

// Table is a table of rows.
func Table(rows ...Node) Node {
	return Node{Type: TypeTable, Content: rows}
}

// TableRow is a row of header or data cells.
func TableRow(cells ...Node) Node {
	return Node{Type: TypeTableRow, Content: cells}
}

// TableHeader is a header cell holding a single paragraph.
func TableHeader(inline ...Node) Node {
	return Node{Type: TypeTableHeader, Content: []Node{Paragraph(inline...)}}
}

// TableCell is a data cell holding a single paragraph.
func TableCell(inline ...Node) Node {
	return Node{Type: TypeTableCell, Content: []Node{Paragraph(inline...)}}
}

// Text is an inline text run.
func Text(s string, marks ...string) Node {
	n := Node{Type: TypeText, Text: s}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}

// Strong is a bold text run.
func Strong(s string) Node { return Text(s, MarkStrong) }

// Code is a monospace text run.
func Code(s string) Node { return Text(s, MarkCode) }

// HasMark reports whether a text node carries the mark.
func (n Node) HasMark(mark string) bool {
	for _, m := range n.Marks {
		if m.Type == mark {
			return true
		}
	}
	return false
}

// Level returns the heading level, or 0 for other nodes. Decoded bodies
// carry the level as whatever number type the codec produced.
func (n Node) Level() int {
	if n.Type != TypeHeading {
		return 0
	}
	switch level := n.Attrs["level"].(type) {
	case int:
		return level
	case int64:
		return int(level)
	case uint64:
		return int(level)
	case float64:
		return int(level)
	}
	return 0
}

// PanelType returns the panel type, or "" for other nodes.
func (n Node) PanelType() string {
	if n.Type != TypePanel {
		return ""
	}
	t, _ := n.Attrs["panelType"].(string)
	return t
}

// PlainText concatenates the text of n and its descendants. Blocks and table
// rows end with a newline, table cells are separated by tabs.
func (n Node) PlainText() string {
	var b strings.Builder
	n.writePlain(&b)
	return strings.TrimRight(b.String(), "\n")
}

func (n Node) writePlain(b *strings.Builder) {
	switch n.Type {
	case TypeText:
		b.WriteString(n.Text)
	case TypeTableRow:
		for i, cell := range n.Content {
			if i > 0 {
				b.WriteByte('\t')
			}
			for _, p := range cell.Content {
				for _, c := range p.Content {
					c.writePlain(b)
				}
			}
		}
		b.WriteByte('\n')
	default:
		for _, c := range n.Content {
			c.writePlain(b)
		}
		if n.Type == TypeParagraph || n.Type == TypeHeading {
			b.WriteByte('\n')
		}
	}
}
