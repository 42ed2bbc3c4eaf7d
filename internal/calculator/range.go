package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median returns the median of values, or NaN when empty. Even counts average
// the two middle values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	lower := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if n%2 == 1 {
		return lower
	}
	return (lower + sorted[n/2]) / 2
}

// MinMax scans values[start:end] and returns the lowest and highest value with
// their absolute positions. Ties resolve to the first occurrence.
func MinMax(values []float64, start, end int) (low float64, lowPos int, high float64, highPos int) {
	low = math.Inf(1)
	high = math.Inf(-1)
	lowPos, highPos = start, start
	for i := start; i < end; i++ {
		if values[i] < low {
			low, lowPos = values[i], i
		}
		if values[i] > high {
			high, highPos = values[i], i
		}
	}
	return low, lowPos, high, highPos
}
