package model

// ExtremaSet holds the bar positions of local maxima and minima of a close
// series, and their close prices (maxima first, then minima).
type ExtremaSet struct {
	Maxima []int
	Minima []int
	Prices []float64
}

// Empty reports whether no extrema were found.
func (e ExtremaSet) Empty() bool { return len(e.Prices) == 0 }

// Levels is the support/resistance output of the density peak search.
type Levels struct {
	Prices    []float64 // density peak prices, ascending
	Extrema   []float64 // extrema prices the density was fitted on
	Bandwidth float64   // bandwidth of the last density evaluated
	Trials    int
	Status    Status
}
