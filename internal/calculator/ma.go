package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"
)

// MovingAverage computes a trailing simple moving average. The first
// period-1 positions have no full window and are reported as not valid.
func MovingAverage(values []float64, period int) ([]float64, []bool, error) {
	if period <= 0 {
		return nil, nil, errors.New("period must be positive")
	}
	valid := make([]bool, len(values))
	if period == 1 {
		out := make([]float64, len(values))
		copy(out, values)
		for i := range valid {
			valid[i] = true
		}
		return out, valid, nil
	}
	if len(values) < period {
		return make([]float64, len(values)), valid, nil
	}
	out := talib.Sma(values, period)
	for i := period - 1; i < len(values); i++ {
		valid[i] = true
	}
	return out, valid, nil
}

// SmoothedMid denoises opens and closes with a moving average and returns the
// per-bar mid price (avgOpen-avgClose)/2 + avgClose.
func SmoothedMid(opens, closes []float64, period int) ([]float64, []bool, error) {
	if len(opens) != len(closes) {
		return nil, nil, errors.New("opens and closes differ in length")
	}
	avgOpen, valid, err := MovingAverage(opens, period)
	if err != nil {
		return nil, nil, err
	}
	avgClose, _, err := MovingAverage(closes, period)
	if err != nil {
		return nil, nil, err
	}
	mid := make([]float64, len(opens))
	for i := range mid {
		mid[i] = (avgOpen[i]-avgClose[i])/2 + avgClose[i]
	}
	return mid, valid, nil
}
