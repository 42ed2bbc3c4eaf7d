package scheduler

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"LevelScope/internal/chart"
	"LevelScope/internal/collector"
	"LevelScope/internal/exporter"
	"LevelScope/internal/model"
	"LevelScope/internal/strategy"
	"LevelScope/internal/tickers"
)

type memRecorder struct {
	mu      sync.Mutex
	runs    []model.RunSummary
	reports []string
}

func (m *memRecorder) RecordRun(run *model.RunSummary) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return int64(len(m.runs)), nil
}

func (m *memRecorder) RecordReport(_ int64, r *model.TickerReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r.Symbol)
	return nil
}

func (m *memRecorder) Close() error { return nil }

func wavyBars(n int) []model.OHLCV {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := 100 + 0.5*float64(i) + 3*math.Sin(float64(i)/3)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: p - 0.2, High: p + 1, Low: p - 1, Close: p, Volume: 1000}
	}
	return bars
}

func testConfig() strategy.Config {
	cfg := strategy.DefaultConfig()
	cfg.Timeframes = []int{60, 20}
	cfg.Labels = []string{"3m", "1m"}
	return cfg
}

func newTestScheduler(t *testing.T, list []string) (*Scheduler, *memRecorder) {
	t.Helper()
	fetcher := &collector.MockFetcher{
		DailyData: map[string][]model.OHLCV{
			"UP":   wavyBars(150),
			"TINY": wavyBars(40),
		},
		Err: map[string]error{"BAD": errors.New("404 not found")},
	}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), collector.NewCollector(fetcher, 252, 125, nil), tickers.StaticSource{List: list}, testConfig(), rec)
	s.Workers = 3
	return s, rec
}

func TestRunNow_ReportsFollowTickerOrder(t *testing.T) {
	dir := t.TempDir()
	s, rec := newTestScheduler(t, []string{"BAD", "up", "", "TINY"})
	s.CSV = exporter.NewCSVWriter(filepath.Join(dir, "out.csv"), s.Strategy.Labels)
	s.Charts = chart.NewRenderer(filepath.Join(dir, "charts"), 5, 20)
	var console bytes.Buffer
	s.Console = &console

	batch, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		symbol string
		status model.Status
	}{
		{"BAD", model.StatusUnavailable},
		{"UP", model.StatusOK},
		{"", model.StatusInvalidTicker},
		{"TINY", model.StatusInsufficientData},
	}
	if len(batch.Reports) != len(want) {
		t.Fatalf("got %d reports, want %d", len(batch.Reports), len(want))
	}
	for i, w := range want {
		r := batch.Reports[i]
		if r.Symbol != w.symbol || r.Status != w.status {
			t.Errorf("report %d = %s/%s, want %s/%s", i, r.Symbol, r.Status, w.symbol, w.status)
		}
	}

	if batch.Summary.Tickers != 4 || batch.Summary.Succeeded != 1 || batch.Summary.Skipped != 3 {
		t.Errorf("summary = %+v", batch.Summary)
	}
	if len(batch.Reports[1].Predictions) != 2 {
		t.Errorf("expected 2 predictions for UP, got %d", len(batch.Reports[1].Predictions))
	}

	data, err := os.ReadFile(s.CSV.Path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 5 {
		t.Errorf("csv has %d lines, want 5", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "charts", "UP.html")); err != nil {
		t.Errorf("chart not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "charts", "BAD.html")); err == nil {
		t.Error("failed tickers should not be charted")
	}
	if !strings.Contains(console.String(), "UP") {
		t.Error("console table missing ticker")
	}

	if len(rec.runs) != 1 || len(rec.reports) != 4 {
		t.Errorf("recorded %d runs, %d reports", len(rec.runs), len(rec.reports))
	}
	if s.Last() != batch {
		t.Error("last batch not kept")
	}
}

func TestRunNow_RepeatedTickerChartedOnce(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScheduler(t, []string{"UP", "UP", "UP"})
	s.Charts = chart.NewRenderer(dir, 5, 20)

	batch, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range batch.Reports {
		if r.Symbol != "UP" || r.Status != model.StatusOK {
			t.Errorf("report %d = %s/%s", i, r.Symbol, r.Status)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "UP.html"))
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if n := strings.Count(string(data), "</html>"); n != 1 {
		t.Errorf("expected one complete page, found %d closing tags", n)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, []string{"UP"})

	if got := s.HandleCommand("/last"); !strings.Contains(got, "No analysis") {
		t.Errorf("/last before run = %q", got)
	}
	if got := s.HandleCommand("/run"); got != "" {
		t.Errorf("/run reply = %q", got)
	}
	if got := s.HandleCommand("/last"); !strings.Contains(got, "OK: 1") {
		t.Errorf("/last after run = %q", got)
	}
	if got := s.HandleCommand("/ticker up"); !strings.Contains(got, "<b>UP</b>") || !strings.Contains(got, "Predicted ranges") {
		t.Errorf("/ticker reply = %q", got)
	}
	if got := s.HandleCommand("/ticker"); !strings.Contains(got, "Usage") {
		t.Errorf("/ticker without symbol = %q", got)
	}
	if got := s.HandleCommand("hello"); !strings.Contains(got, "/run") {
		t.Errorf("help = %q", got)
	}
}

func TestRegister_RejectsBadCron(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	if err := s.Register("not a cron"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if err := s.Register("0 30 22 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
