package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorizeStage maps a stage name to a colored label for terminal output.
func colorizeStage(stage string, colorize bool) string {
	if !colorize {
		return stage
	}
	switch stage {
	case "needs_assignment":
		return color.New(color.FgWhite).Sprint(stage)
	case "in_progress":
		return color.New(color.FgBlue).Sprint(stage)
	case "internal_review":
		return color.New(color.FgYellow).Sprint(stage)
	case "needs_revision":
		return color.New(color.FgRed).Sprint(stage)
	case "complete":
		return color.New(color.FgGreen).Sprint(stage)
	default:
		return stage
	}
}

func colorizeDelivered(delivered bool, colorize bool) string {
	label := yesNo(delivered)
	if colorize && delivered {
		return color.New(color.FgGreen).Sprint(label)
	}
	return label
}
