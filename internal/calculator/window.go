package calculator

import (
	"math"

	"LevelScope/internal/model"
)

// SampleWindows splits the trailing timeframe bars of series into
// non-overlapping windows of step bars, starting at len-timeframe-1. Windows
// that would run past the last bar are dropped. Each window's mid sample is
// the median of the smoothed mid prices; its min/max come from raw closes.
func SampleWindows(series *model.PriceSeries, timeframe, step, period int) []model.TrendWindow {
	n := series.Len()
	if n == 0 || timeframe <= 0 || step <= 0 {
		return nil
	}
	closes := series.Closes()
	mid, valid, err := SmoothedMid(series.Opens(), closes, period)
	if err != nil {
		return nil
	}

	start := n - timeframe - 1
	if start < 0 {
		start = 0
	}
	var windows []model.TrendWindow
	buf := make([]float64, 0, step)
	for i := start; i < n; i += step {
		if i+step > n {
			continue
		}
		buf = buf[:0]
		for j := i; j < i+step; j++ {
			if valid[j] {
				buf = append(buf, mid[j])
			}
		}
		m := Median(buf)
		if math.IsNaN(m) {
			continue
		}
		low, lowPos, high, highPos := MinMax(closes, i, i+step)
		windows = append(windows, model.TrendWindow{
			Position: i,
			Mid:      m,
			Min:      low,
			MinPos:   lowPos,
			Max:      high,
			MaxPos:   highPos,
		})
	}
	return windows
}
