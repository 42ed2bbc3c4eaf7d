package calculator

import (
	"math"
	"testing"
	"time"

	"LevelScope/internal/model"
)

// linearSeries builds n bars whose open and close both lie on slope*i+intercept.
func linearSeries(n int, slope, intercept float64) *model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := slope*float64(i) + intercept
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "LIN", Bars: bars}
}

func TestMovingAverage(t *testing.T) {
	avg, valid, err := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valid[0] || valid[1] || !valid[2] {
		t.Errorf("unexpected validity mask %v", valid)
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(avg[i+2]-w) > 1e-9 {
			t.Errorf("avg[%d]: expected %.2f, got %.2f", i+2, w, avg[i+2])
		}
	}
	if _, _, err := MovingAverage([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd: expected 2, got %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even: expected 2.5, got %v", got)
	}
	if !math.IsNaN(Median(nil)) {
		t.Error("expected NaN for empty input")
	}
}

func TestSampleWindows_Linear(t *testing.T) {
	series := linearSeries(30, 2, 10)
	windows := SampleWindows(series, 20, 5, 3)
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(windows))
	}
	for k, w := range windows {
		pos := 9 + 5*k
		if w.Position != pos {
			t.Errorf("window %d: expected position %d, got %d", k, pos, w.Position)
		}
		// trailing 3-bar average lags one bar, median sits mid-window
		if want := 2*float64(pos+1) + 10; math.Abs(w.Mid-want) > 1e-9 {
			t.Errorf("window %d: expected mid %.2f, got %.2f", k, want, w.Mid)
		}
		if w.MinPos != pos || w.MaxPos != pos+4 {
			t.Errorf("window %d: expected extremes at %d/%d, got %d/%d", k, pos, pos+4, w.MinPos, w.MaxPos)
		}
	}
}

func TestSampleWindows_SkipsOverrun(t *testing.T) {
	series := linearSeries(12, 1, 100)
	for _, w := range SampleWindows(series, 10, 5, 3) {
		if w.Position+5 > series.Len() {
			t.Errorf("window at %d runs past the end", w.Position)
		}
	}
}

func TestSampleWindows_TimeframeLongerThanHistory(t *testing.T) {
	series := linearSeries(20, 1, 100)
	windows := SampleWindows(series, 500, 5, 3)
	if len(windows) == 0 {
		t.Fatal("expected windows clamped to the start of history")
	}
	if windows[0].Position != 0 {
		t.Errorf("expected first window at 0, got %d", windows[0].Position)
	}
}

func TestSampleWindows_TooShort(t *testing.T) {
	series := linearSeries(4, 1, 100)
	if got := SampleWindows(series, 1, 5, 3); len(got) != 0 {
		t.Errorf("expected no windows, got %d", len(got))
	}
}
