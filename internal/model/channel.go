package model

// TrendWindow is one step-sized slice of the trailing history.
type TrendWindow struct {
	Position int     // index of the first bar of the window
	Mid      float64 // median smoothed mid price
	Min      float64 // lowest raw close
	MinPos   int
	Max      float64 // highest raw close
	MaxPos   int
}

// TrendChannel is a fitted center line with worst-case slack on each side.
type TrendChannel struct {
	Timeframe  int
	Slope      float64
	Intercept  float64
	LowerSlack float64
	UpperSlack float64
	Windows    int
	Indices    []int
	Lower      []float64
	Upper      []float64
	Status     Status
}

// MidAt evaluates the center line at x.
func (c TrendChannel) MidAt(x float64) float64 { return c.Slope*x + c.Intercept }

// LowerAt evaluates the lower bound line at x.
func (c TrendChannel) LowerAt(x float64) float64 { return c.MidAt(x) - c.LowerSlack }

// UpperAt evaluates the upper bound line at x.
func (c TrendChannel) UpperAt(x float64) float64 { return c.MidAt(x) + c.UpperSlack }

// PredictAt evaluates the channel horizon bars past a history of n bars. A
// channel that is not OK yields a zero prediction carrying its status.
func (c TrendChannel) PredictAt(horizon, n int) Prediction {
	p := Prediction{Timeframe: horizon, At: horizon + n, Status: c.Status}
	if c.Status != StatusOK {
		return p
	}
	p.Min = c.LowerAt(float64(p.At))
	p.Max = c.UpperAt(float64(p.At))
	return p
}

// Prediction is a channel evaluated at a future bar position.
type Prediction struct {
	Timeframe int
	Label     string
	At        int
	Min       float64
	Max       float64
	Status    Status
}
