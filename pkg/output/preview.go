// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cicd-ai-toolkit/notepack/pkg/document"
)

var previewHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// Preview renders the submission plan of one entity as a table: one row
// per chunk in submission order.
func Preview(entity string, chunks []document.Chunk) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Label", "Sources", "Cost", "Comment").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return previewHeaderStyle
			}
			return cellStyle
		})
	for i, c := range chunks {
		comment := ""
		if c.LeadingComment != "" {
			comment = "yes"
		}
		t.Row(strconv.Itoa(i+1), c.Label, strings.Join(c.Sources, ", "), strconv.Itoa(c.Cost), comment)
	}
	title := headingStyle.Render(entity) + "  " + strconv.Itoa(len(chunks)) + " chunk(s)"
	return title + "\n" + t.Render() + "\n"
}
