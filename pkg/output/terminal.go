// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	strongStyle  = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)

	panelColors = map[string]lipgloss.Color{
		document.PanelInfo:    lipgloss.Color("39"),
		document.PanelNote:    lipgloss.Color("141"),
		document.PanelWarning: lipgloss.Color("214"),
	}
)

// Terminal renders a block tree with lipgloss styling for a terminal.
func Terminal(n document.Node) string {
	var parts []string
	for _, block := range n.Content {
		if s := terminalBlock(block); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n") + "\n"
}

func terminalBlock(n document.Node) string {
	switch n.Type {
	case document.TypeHeading:
		prefix := strings.Repeat("#", max(n.Level(), 1)) + " "
		return headingStyle.Render(prefix + terminalInline(n.Content))
	case document.TypeParagraph:
		return terminalInline(n.Content)
	case document.TypePanel:
		var inner []string
		for _, c := range n.Content {
			inner = append(inner, terminalBlock(c))
		}
		color, ok := panelColors[n.PanelType()]
		if !ok {
			color = lipgloss.Color("245")
		}
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Render(strings.Join(inner, "\n"))
	case document.TypeTable:
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(_, col int) lipgloss.Style {
				if col == 0 {
					return keyStyle
				}
				return cellStyle
			})
		for _, row := range n.Content {
			var cells []string
			for _, cell := range row.Content {
				var text string
				if len(cell.Content) > 0 {
					text = terminalInline(cell.Content[0].Content)
				}
				cells = append(cells, text)
			}
			t.Row(cells...)
		}
		return t.Render()
	}
	return ""
}

func terminalInline(nodes []document.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch {
		case n.HasMark(document.MarkCode):
			b.WriteString(codeStyle.Render(n.Text))
		case n.HasMark(document.MarkStrong):
			b.WriteString(strongStyle.Render(n.Text))
		default:
			b.WriteString(n.Text)
		}
	}
	return b.String()
}
