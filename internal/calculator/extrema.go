package calculator

import "LevelScope/internal/model"

// FindExtrema returns the strict local maxima and minima of closes. The first
// and last points are never extrema.
func FindExtrema(closes []float64) model.ExtremaSet {
	var set model.ExtremaSet
	if len(closes) < 3 {
		return set
	}
	for i := 1; i < len(closes)-1; i++ {
		switch {
		case closes[i] > closes[i-1] && closes[i] > closes[i+1]:
			set.Maxima = append(set.Maxima, i)
		case closes[i] < closes[i-1] && closes[i] < closes[i+1]:
			set.Minima = append(set.Minima, i)
		}
	}
	set.Prices = make([]float64, 0, len(set.Maxima)+len(set.Minima))
	for _, i := range set.Maxima {
		set.Prices = append(set.Prices, closes[i])
	}
	for _, i := range set.Minima {
		set.Prices = append(set.Prices, closes[i])
	}
	return set
}
