package calculator

import (
	"reflect"
	"testing"
)

func TestFindExtrema_ShortInput(t *testing.T) {
	for _, closes := range [][]float64{nil, {1}, {1, 2}} {
		set := FindExtrema(closes)
		if len(set.Maxima) != 0 || len(set.Minima) != 0 || len(set.Prices) != 0 {
			t.Errorf("len %d: expected empty extrema, got %+v", len(closes), set)
		}
	}
}

func TestFindExtrema_Monotonic(t *testing.T) {
	up := []float64{1, 2, 3, 4, 5, 6}
	down := []float64{9, 7, 5, 3, 1}
	for _, closes := range [][]float64{up, down} {
		if set := FindExtrema(closes); !set.Empty() {
			t.Errorf("expected no extrema for %v, got %+v", closes, set)
		}
	}
}

func TestFindExtrema_Zigzag(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 9, 9, 14, 8}
	set := FindExtrema(closes)
	if !reflect.DeepEqual(set.Maxima, []int{1, 3, 6}) {
		t.Errorf("maxima: got %v", set.Maxima)
	}
	// the flat bottom at 4-5 is not strict on either side
	if !reflect.DeepEqual(set.Minima, []int{2}) {
		t.Errorf("minima: got %v", set.Minima)
	}
	want := []float64{12, 13, 14, 11}
	if !reflect.DeepEqual(set.Prices, want) {
		t.Errorf("prices: expected %v, got %v", want, set.Prices)
	}
}

func TestFindExtrema_BoundariesNeverCount(t *testing.T) {
	set := FindExtrema([]float64{100, 1, 2, 3, 100})
	if len(set.Maxima) != 0 {
		t.Errorf("boundary point reported as maximum: %v", set.Maxima)
	}
	if !reflect.DeepEqual(set.Minima, []int{1}) {
		t.Errorf("minima: got %v", set.Minima)
	}
}
