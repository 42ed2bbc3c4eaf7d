package model

import "time"

// TickerReport is the complete analysis result for one ticker. It is built
// fresh per run and passed by value.
type TickerReport struct {
	Symbol      string
	Status      Status
	Reason      string
	Bars        int
	LastClose   float64
	Levels      Levels
	Channels    []TrendChannel
	Predictions []Prediction
	Series      *PriceSeries
	AnalyzedAt  time.Time
}

// OK reports whether the ticker produced predictions.
func (r TickerReport) OK() bool { return r.Status == StatusOK }

// RunSummary aggregates one batch run.
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Tickers    int
	Succeeded  int
	Skipped    int
}
