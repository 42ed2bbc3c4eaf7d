package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the daily history of one ticker. Bar positions are the
// slice indexes; the analysis never mutates the bars.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Opens returns the open prices in bar order.
func (s *PriceSeries) Opens() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Open
	}
	return out
}

// ZeroVolumeBars counts bars that traded nothing.
func (s *PriceSeries) ZeroVolumeBars() int {
	n := 0
	for _, b := range s.Bars {
		if b.Volume == 0 {
			n++
		}
	}
	return n
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Dates returns "MM-DD" labels for every bar, as used on chart axes.
func (s *PriceSeries) Dates() []string {
	out := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time.Format("01-02")
	}
	return out
}
