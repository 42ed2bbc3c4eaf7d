package calculator

import (
	"fmt"
	"math"

	"github.com/sajari/regression"

	"LevelScope/internal/model"
)

// DisplayRange is the half-open bar interval the bound lines are evaluated
// over for charting.
type DisplayRange struct {
	Start int
	End   int
}

// Indices expands the range into bar positions.
func (d DisplayRange) Indices() []int {
	if d.End <= d.Start {
		return nil
	}
	out := make([]int, 0, d.End-d.Start)
	for i := d.Start; i < d.End; i++ {
		out = append(out, i)
	}
	return out
}

// FitLine fits y = slope*x + intercept by least squares. Two points give the
// exact line through them.
func FitLine(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("fit line: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return 0, 0, fmt.Errorf("fit line: need at least 2 points, got %d", len(xs))
	}
	// regression.Run refuses fewer than 3 observations
	if len(xs) == 2 {
		if xs[0] == xs[1] {
			return 0, 0, fmt.Errorf("fit line: singular data")
		}
		slope = (ys[1] - ys[0]) / (xs[1] - xs[0])
		return slope, ys[0] - slope*xs[0], nil
	}
	r := new(regression.Regression)
	r.SetObserved("mid")
	r.SetVar(0, "position")
	for i, x := range xs {
		r.Train(regression.DataPoint(ys[i], []float64{x}))
	}
	if err := r.Run(); err != nil {
		return 0, 0, fmt.Errorf("fit line: %w", err)
	}
	intercept, slope = r.Coeff(0), r.Coeff(1)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return 0, 0, fmt.Errorf("fit line: singular data")
	}
	return slope, intercept, nil
}

// FitChannel fits the center line through the window mid samples and widens
// it by the largest miss of any window extreme, producing an envelope that
// contained every historical window extreme. The prediction is the channel
// evaluated at bar timeframe+n. Fewer than two windows yield a flat zero
// channel tagged StatusDegenerate.
func FitChannel(windows []model.TrendWindow, timeframe, n int, display DisplayRange) (model.TrendChannel, model.Prediction) {
	indices := display.Indices()
	ch := model.TrendChannel{
		Timeframe: timeframe,
		Windows:   len(windows),
		Indices:   indices,
		Lower:     make([]float64, len(indices)),
		Upper:     make([]float64, len(indices)),
		Status:    model.StatusDegenerate,
	}
	if len(windows) < 2 {
		return ch, ch.PredictAt(timeframe, n)
	}

	xs := make([]float64, len(windows))
	ys := make([]float64, len(windows))
	for i, w := range windows {
		xs[i] = float64(w.Position)
		ys[i] = w.Mid
	}
	slope, intercept, err := FitLine(xs, ys)
	if err != nil {
		return ch, ch.PredictAt(timeframe, n)
	}
	ch.Slope, ch.Intercept = slope, intercept

	ch.LowerSlack = math.Inf(-1)
	ch.UpperSlack = math.Inf(-1)
	for _, w := range windows {
		if miss := ch.MidAt(float64(w.MinPos)) - w.Min; miss > ch.LowerSlack {
			ch.LowerSlack = miss
		}
		if miss := w.Max - ch.MidAt(float64(w.MaxPos)); miss > ch.UpperSlack {
			ch.UpperSlack = miss
		}
	}
	for i, x := range indices {
		ch.Lower[i] = ch.LowerAt(float64(x))
		ch.Upper[i] = ch.UpperAt(float64(x))
	}
	ch.Status = model.StatusOK
	return ch, ch.PredictAt(timeframe, n)
}

// TrendAngle returns the inclination of the fitted center line in degrees.
// The second result is false when the windows cannot be fitted.
func TrendAngle(windows []model.TrendWindow) (float64, bool) {
	if len(windows) < 2 {
		return 0, false
	}
	xs := make([]float64, len(windows))
	ys := make([]float64, len(windows))
	for i, w := range windows {
		xs[i] = float64(w.Position)
		ys[i] = w.Mid
	}
	slope, _, err := FitLine(xs, ys)
	if err != nil {
		return 0, false
	}
	return math.Atan(slope) * 180 / math.Pi, true
}
