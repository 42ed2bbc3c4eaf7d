package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"LevelScope/internal/model"
)

// FormatRunSummary formats a batch run into a Telegram message: counts
// followed by one line per ticker.
func FormatRunSummary(run model.RunSummary, reports []model.TickerReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>LevelScope</b> | %s\n\n", run.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Tickers: %d | OK: %d | Skipped: %d\n", run.Tickers, run.Succeeded, run.Skipped))
	if d := run.FinishedAt.Sub(run.StartedAt); d > 0 {
		b.WriteString(fmt.Sprintf("Duration: %s\n", d.Round(time.Second)))
	}
	b.WriteString("\n")

	for _, r := range reports {
		b.WriteString(summaryLine(r))
		b.WriteString("\n")
	}
	return b.String()
}

func summaryLine(r model.TickerReport) string {
	sym := html.EscapeString(r.Symbol)
	if sym == "" {
		sym = "(blank)"
	}
	if !r.OK() {
		return fmt.Sprintf("⚠️ %s: %s", sym, statusText(r.Status))
	}
	line := fmt.Sprintf("✅ <b>%s</b> %.2f", sym, r.LastClose)
	if p, ok := longestPrediction(r.Predictions); ok {
		line += fmt.Sprintf(" | %s %.2f–%.2f", html.EscapeString(p.Label), p.Min, p.Max)
	}
	return line
}

// FormatTickerReport formats one ticker with its levels and all predictions.
func FormatTickerReport(r model.TickerReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b>\n\n", html.EscapeString(r.Symbol)))
	if !r.OK() {
		b.WriteString(statusText(r.Status))
		if r.Reason != "" {
			b.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(r.Reason)))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Last close: %.2f (%d bars)\n\n", r.LastClose, r.Bars))
	b.WriteString("<b>Support / resistance:</b>\n")
	if len(r.Levels.Prices) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range r.Levels.Prices {
		marker := "🟢"
		if p > r.LastClose {
			marker = "🔴"
		}
		b.WriteString(fmt.Sprintf("  %s %.2f\n", marker, p))
	}
	if r.Levels.Status == model.StatusExhausted {
		b.WriteString("  (bandwidth search exhausted)\n")
	}

	b.WriteString("\n<b>Predicted ranges:</b>\n")
	for _, p := range r.Predictions {
		if p.Status != model.StatusOK {
			b.WriteString(fmt.Sprintf("  %s: n/a\n", html.EscapeString(p.Label)))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %.2f – %.2f\n", html.EscapeString(p.Label), p.Min, p.Max))
	}
	return b.String()
}

// longestPrediction returns the first usable prediction; timeframes are
// ordered longest first.
func longestPrediction(preds []model.Prediction) (model.Prediction, bool) {
	for _, p := range preds {
		if p.Status == model.StatusOK {
			return p, true
		}
	}
	return model.Prediction{}, false
}

func statusText(s model.Status) string {
	switch s {
	case model.StatusInvalidTicker, model.StatusUnavailable:
		return "invalid ticker or no data"
	case model.StatusInsufficientData:
		return "insufficient data"
	case model.StatusImpossible:
		return "prediction impossible"
	default:
		return strings.ToLower(string(s))
	}
}
