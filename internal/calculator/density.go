package calculator

import (
	"math"

	"LevelScope/internal/model"
)

// DensityConfig tunes the adaptive bandwidth search.
type DensityConfig struct {
	MinPeaks         int
	MaxPeaks         int
	GridSize         int
	BandwidthDivisor float64 // seed interval = first extremum price / divisor
	MaxSteps         int     // bandwidth ceiling = MaxSteps * interval
}

// DefaultDensityConfig returns the search settings used in production.
func DefaultDensityConfig() DensityConfig {
	return DensityConfig{
		MinPeaks:         2,
		MaxPeaks:         10,
		GridSize:         1000,
		BandwidthDivisor: 10000,
		MaxSteps:         100,
	}
}

// minInterval replaces a zero seed interval.
const minInterval = 1e-8

// Linspace returns n evenly spaced values over [a, b].
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// GaussianKDE evaluates a normalized Gaussian kernel density of points with
// the given bandwidth at every grid value.
func GaussianKDE(points []float64, bandwidth float64, grid []float64) []float64 {
	density := make([]float64, len(grid))
	if len(points) == 0 || bandwidth <= 0 {
		return density
	}
	norm := 1 / (float64(len(points)) * bandwidth * math.Sqrt(2*math.Pi))
	for i, x := range grid {
		var sum float64
		for _, p := range points {
			u := (x - p) / bandwidth
			sum += math.Exp(-0.5 * u * u)
		}
		density[i] = sum * norm
	}
	return density
}

// FindPeaks returns indexes of local maxima of y. A flat top counts once, at
// its middle index, when the values on both sides of it are lower. The first
// and last samples are never peaks.
func FindPeaks(y []float64) []int {
	var peaks []int
	i := 1
	for i < len(y)-1 {
		if y[i-1] < y[i] {
			ahead := i + 1
			for ahead < len(y)-1 && y[ahead] == y[i] {
				ahead++
			}
			if y[ahead] < y[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
				continue
			}
		}
		i++
	}
	return peaks
}

// SupportResistance collapses extrema prices into density peak levels. The
// bandwidth starts at a price-scaled interval and widens by that interval
// until the peak count lands inside [MinPeaks, MaxPeaks]. When the ceiling
// is reached the last peak set is returned with StatusExhausted.
func SupportResistance(prices []float64, cfg DensityConfig) model.Levels {
	if len(prices) == 0 {
		return model.Levels{Prices: []float64{}, Extrema: []float64{}, Status: model.StatusInsufficientData}
	}
	if cfg.GridSize < 3 {
		cfg.GridSize = 3
	}
	if cfg.BandwidthDivisor <= 0 {
		cfg.BandwidthDivisor = 10000
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 100
	}

	interval := math.Abs(prices[0]) / cfg.BandwidthDivisor
	if interval == 0 {
		interval = minInterval
	}
	low, _, high, _ := MinMax(prices, 0, len(prices))
	grid := Linspace(low, high, cfg.GridSize)

	levels := model.Levels{Extrema: append([]float64(nil), prices...), Status: model.StatusExhausted}
	var peaks []int
	for step := 1; step <= cfg.MaxSteps; step++ {
		bandwidth := float64(step) * interval
		peaks = FindPeaks(GaussianKDE(prices, bandwidth, grid))
		levels.Bandwidth = bandwidth
		levels.Trials = step
		if len(peaks) >= cfg.MinPeaks && len(peaks) <= cfg.MaxPeaks {
			levels.Status = model.StatusOK
			break
		}
	}

	levels.Prices = make([]float64, len(peaks))
	for i, p := range peaks {
		levels.Prices[i] = grid[p]
	}
	return levels
}
