// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"strings"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	"[", `\[`,
	"]", `\]`,
)

// Markdown renders a block tree as GitHub-flavored markdown. Panels become
// block quotes and flat-object tables get a Field/Value header row.
func Markdown(n document.Node) string {
	var b strings.Builder
	writeMarkdownBlocks(&b, n.Content)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMarkdownBlocks(b *strings.Builder, blocks []document.Node) {
	for _, n := range blocks {
		switch n.Type {
		case document.TypeHeading:
			level := n.Level()
			if level < 1 {
				level = 1
			}
			b.WriteString(strings.Repeat("#", level) + " " + markdownInline(n.Content) + "\n\n")
		case document.TypeParagraph:
			b.WriteString(markdownInline(n.Content) + "\n\n")
		case document.TypePanel:
			var inner strings.Builder
			writeMarkdownBlocks(&inner, n.Content)
			label := strings.ToUpper(n.PanelType())
			lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
			for i, line := range lines {
				if i == 0 && label != "" {
					line = "**" + label + ":** " + line
				}
				b.WriteString(strings.TrimRight("> "+line, " ") + "\n")
			}
			b.WriteString("\n")
		case document.TypeTable:
			writeMarkdownTable(b, n)
		}
	}
}

func writeMarkdownTable(b *strings.Builder, table document.Node) {
	b.WriteString("| Field | Value |\n| --- | --- |\n")
	for _, row := range table.Content {
		b.WriteString("|")
		for _, cell := range row.Content {
			var text string
			if len(cell.Content) > 0 {
				text = markdownInline(cell.Content[0].Content)
			}
			b.WriteString(" " + strings.ReplaceAll(text, "|", `\|`) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func markdownInline(nodes []document.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Type != document.TypeText {
			continue
		}
		switch {
		case n.HasMark(document.MarkCode):
			b.WriteString(codeSpan(n.Text))
		case n.HasMark(document.MarkStrong):
			b.WriteString("**" + strings.TrimSpace(markdownEscaper.Replace(n.Text)) + "**")
			if strings.HasSuffix(n.Text, " ") {
				b.WriteString(" ")
			}
		default:
			b.WriteString(markdownEscaper.Replace(strings.ReplaceAll(n.Text, "\n", " ")))
		}
	}
	return b.String()
}

func codeSpan(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}
