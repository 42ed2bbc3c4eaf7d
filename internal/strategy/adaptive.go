package strategy

import (
	"math"

	"LevelScope/internal/calculator"
	"LevelScope/internal/model"
)

// AdaptiveTimeframes stretches the second and third lookbacks one bar at a
// time until the trend angle of each agrees with the lookback before it. The
// remaining timeframes are kept. It returns false when the first two angles
// diverge by more than AngleLimit, in which case no prediction is made.
// Growth stops at the length of the series.
func AdaptiveTimeframes(series *model.PriceSeries, cfg Config) ([]int, bool) {
	tfs := append([]int(nil), cfg.Timeframes...)
	if len(tfs) < 3 {
		return tfs, true
	}
	angle := func(tf int) (float64, bool) {
		return calculator.TrendAngle(calculator.SampleWindows(series, tf, cfg.Step, cfg.Smoothing))
	}
	limit := series.Len()

	first, ok := angle(tfs[0])
	if !ok {
		return tfs, false
	}
	second, ok := angle(tfs[1])
	if !ok || math.Abs(second-first) > cfg.AngleLimit {
		return tfs, false
	}
	for math.Abs(second-first) > cfg.AngleTolerance && tfs[1] < limit {
		tfs[1]++
		if a, ok := angle(tfs[1]); ok {
			second = a
		}
	}

	third := 90.0
	for math.Abs(third-second) > cfg.AngleToleranceNext && tfs[2] < limit {
		tfs[2]++
		if a, ok := angle(tfs[2]); ok {
			third = a
		}
	}
	return tfs, true
}
