package exporter

import (
	"github.com/shopspring/decimal"

	"LevelScope/internal/model"
)

// Precision is the number of decimals exported for predicted prices.
const Precision = 4

// StatusText is the spreadsheet wording for reports without predictions.
func StatusText(s model.Status) string {
	switch s {
	case model.StatusInvalidTicker, model.StatusUnavailable:
		return "Invalid stock name"
	case model.StatusInsufficientData:
		return "Insufficient data for analysis"
	case model.StatusImpossible:
		return "prediction is impossible"
	default:
		return string(s)
	}
}

// Header returns the column titles for labels ordered longest first. Columns
// run from the shortest horizon to the longest.
func Header(labels []string) []string {
	out := []string{"Ticker"}
	for i := len(labels) - 1; i >= 0; i-- {
		out = append(out, labels[i]+" min", labels[i]+" max")
	}
	return out
}

// Row renders a report as one spreadsheet row of width 1+2*width: the ticker,
// then a min/max pair per timeframe from shortest to longest. Reports without
// predictions put their status text in the first value cell.
func Row(r model.TickerReport, width int) []string {
	row := make([]string, 1+2*width)
	row[0] = r.Symbol
	if !r.OK() {
		row[1] = StatusText(r.Status)
		return row
	}
	for i := 0; i < width && i < len(r.Predictions); i++ {
		p := r.Predictions[len(r.Predictions)-1-i]
		if p.Status != model.StatusOK {
			continue
		}
		row[1+2*i] = FormatPrice(p.Min)
		row[2+2*i] = FormatPrice(p.Max)
	}
	return row
}

// FormatPrice rounds a price half away from zero to Precision decimals.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).Round(Precision).String()
}
