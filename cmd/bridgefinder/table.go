package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lineakit/bridgefinder/bridge"
)

// summaryTable renders one row per scored match, strongest first within
// each ancestor.
func summaryTable(report bridge.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Ancestor", "Match", "Score", "Verdict"})

	for _, result := range report.Results {
		for _, m := range result.Matches {
			tw.AppendRow(table.Row{
				result.Person.Key,
				m.Candidate.Key,
				fmt.Sprintf("%d%%", m.Breakdown.Percentage),
				m.Verdict.String(),
			})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
