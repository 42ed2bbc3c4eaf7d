package calculator

import (
	"math"
	"reflect"
	"testing"

	"LevelScope/internal/model"
)

func TestLinspace(t *testing.T) {
	got := Linspace(1, 2, 5)
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(Linspace(0, 1, 0)) != 0 {
		t.Error("expected empty grid for n=0")
	}
}

func TestGaussianKDE_IntegratesToOne(t *testing.T) {
	grid := Linspace(-10, 20, 3001)
	density := GaussianKDE([]float64{3, 5, 7}, 1.5, grid)
	dx := grid[1] - grid[0]
	var area float64
	for _, d := range density {
		area += d * dx
	}
	if math.Abs(area-1) > 1e-3 {
		t.Errorf("expected unit area, got %.6f", area)
	}
}

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
		want []int
	}{
		{"single", []float64{0, 1, 0}, []int{1}},
		{"edges ignored", []float64{5, 1, 5}, nil},
		{"two", []float64{0, 2, 1, 3, 0}, []int{1, 3}},
		{"plateau", []float64{0, 2, 2, 2, 0}, []int{2}},
		{"shoulder", []float64{0, 2, 2, 3, 0}, []int{3}},
		{"flat", []float64{1, 1, 1, 1}, nil},
	}
	for _, tt := range tests {
		if got := FindPeaks(tt.y); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSupportResistance_Empty(t *testing.T) {
	levels := SupportResistance(nil, DefaultDensityConfig())
	if levels.Status != model.StatusInsufficientData {
		t.Errorf("expected insufficient data, got %s", levels.Status)
	}
	if levels.Prices == nil || len(levels.Prices) != 0 || len(levels.Extrema) != 0 {
		t.Errorf("expected empty non-nil level set, got %+v", levels)
	}
}

func TestSupportResistance_RepeatedValueTerminates(t *testing.T) {
	cfg := DefaultDensityConfig()
	levels := SupportResistance([]float64{50, 50, 50, 50}, cfg)
	if levels.Status != model.StatusExhausted {
		t.Errorf("expected exhausted search, got %s", levels.Status)
	}
	if levels.Trials != cfg.MaxSteps {
		t.Errorf("expected %d trials, got %d", cfg.MaxSteps, levels.Trials)
	}
	if len(levels.Prices) != 0 {
		t.Errorf("expected no levels for a flat density, got %v", levels.Prices)
	}
}

func TestSupportResistance_ZeroSeedPrice(t *testing.T) {
	levels := SupportResistance([]float64{0, 0, 0}, DefaultDensityConfig())
	if levels.Bandwidth <= 0 {
		t.Errorf("expected positive bandwidth, got %g", levels.Bandwidth)
	}
}

func TestSupportResistance_ThreeClusters(t *testing.T) {
	centers := []float64{100, 150, 200}
	var prices []float64
	for _, c := range centers {
		prices = append(prices, c, c+0.5, c+1.0)
	}
	cfg := DefaultDensityConfig()
	levels := SupportResistance(prices, cfg)
	if levels.Status != model.StatusOK {
		t.Fatalf("expected convergence, got %s after %d trials", levels.Status, levels.Trials)
	}
	if n := len(levels.Prices); n < cfg.MinPeaks || n > cfg.MaxPeaks {
		t.Fatalf("expected level count in [%d,%d], got %d", cfg.MinPeaks, cfg.MaxPeaks, n)
	}
	for _, p := range levels.Prices {
		near := false
		for _, c := range centers {
			if p >= c-1 && p <= c+2 {
				near = true
			}
		}
		if !near {
			t.Errorf("level %.3f is not near any cluster", p)
		}
	}
	for i := 1; i < len(levels.Prices); i++ {
		if levels.Prices[i] < levels.Prices[i-1] {
			t.Errorf("levels not ascending: %v", levels.Prices)
		}
	}
}

func TestSupportResistance_Deterministic(t *testing.T) {
	prices := []float64{101.2, 99.8, 104.5, 98.1, 103.9, 100.4, 97.6, 105.2, 99.1, 102.7}
	a := SupportResistance(prices, DefaultDensityConfig())
	b := SupportResistance(prices, DefaultDensityConfig())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical results, got %+v and %+v", a, b)
	}
}
