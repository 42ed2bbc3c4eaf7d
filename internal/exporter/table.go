package exporter

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"

	"LevelScope/internal/model"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	failColor = color.New(color.FgRed).SprintFunc()
)

// RenderTable prints the batch as a console table: status, levels and every
// prediction pair.
func RenderTable(out io.Writer, reports []model.TickerReport, labels []string) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Ticker", "Status", "Last", "Levels"}
	for _, h := range Header(labels)[1:] {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, r := range reports {
		row := table.Row{r.Symbol, statusCell(r), "", levelsCell(r.Levels)}
		if r.LastClose > 0 {
			row[2] = FormatPrice(r.LastClose)
		}
		for _, cell := range Row(r, len(labels))[1:] {
			if !r.OK() {
				cell = ""
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func statusCell(r model.TickerReport) string {
	switch r.Status {
	case model.StatusOK:
		return okColor(string(r.Status))
	case model.StatusInsufficientData, model.StatusImpossible:
		return warnColor(StatusText(r.Status))
	default:
		return failColor(StatusText(r.Status))
	}
}

func levelsCell(l model.Levels) string {
	if len(l.Prices) == 0 {
		return "-"
	}
	parts := make([]string, len(l.Prices))
	for i, p := range l.Prices {
		parts[i] = decimal.NewFromFloat(p).StringFixed(2)
	}
	s := strings.Join(parts, " ")
	if l.Status == model.StatusExhausted {
		s += " *"
	}
	return s
}
