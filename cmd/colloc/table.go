package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cognicore/colloc/pkg/colloc"
)

func renderSummary(summary colloc.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Tokens", "Keyword hits", "Collocates", "Status"})

	for _, fs := range summary.Files {
		status := "ok"
		switch {
		case fs.Err != nil:
			status = "failed"
		case fs.KeywordFreq == 0:
			status = "keyword not found"
		}
		tw.AppendRow(table.Row{
			fs.Name,
			strconv.FormatInt(fs.Tokens, 10),
			strconv.FormatInt(fs.KeywordFreq, 10),
			strconv.Itoa(fs.Rows),
			status,
		})
	}
	tw.AppendFooter(table.Row{"Total", "", "", strconv.Itoa(summary.Rows()), strconv.Itoa(summary.Failed()) + " failed"})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
