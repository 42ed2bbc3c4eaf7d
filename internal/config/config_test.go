package config

import (
	"os"
	"path/filepath"
	"testing"

	"LevelScope/internal/strategy"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Analysis.Timeframes; len(got) != 6 || got[0] != 126 || got[5] != 1 {
		t.Errorf("timeframes = %v", got)
	}
	if cfg.Analysis.TimeframeLabels[0] != "6m" {
		t.Errorf("labels = %v", cfg.Analysis.TimeframeLabels)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.MinBars != 125 || cfg.DataSource.MaxZeroVolume != 20 {
		t.Errorf("data source defaults = %+v", cfg.DataSource)
	}
	if !cfg.Output.Console {
		t.Error("console output should default on")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without tickers")
	}
}

func TestLoad_FileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", `
analysis:
  peaks_range: [3, 8]
  strategy: adaptive
  timeframes: [100, 50, 20]
  timeframe_labels: [a, b, c]
data_source:
  base_url: http://bars.local
  range: 2y
tickers:
  list: [aapl, msft]
output:
  console: false
workers: 2
`)
	writeFile(t, dir, ".env", "TELEGRAM_BOT_TOKEN=from-dotenv\nTELEGRAM_CHAT_ID=99\n")
	t.Setenv("WORKERS", "8")
	t.Setenv("TELEGRAM_CHAT_ID", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_BOT_TOKEN") })

	if cfg.Telegram.BotToken != "from-dotenv" {
		t.Errorf("bot token = %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "7" {
		t.Errorf("environment should win over .env, chat id = %q", cfg.Telegram.ChatID)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.DataSource.Provider != "rest" {
		t.Errorf("provider = %q", cfg.DataSource.Provider)
	}
	if cfg.Output.Console {
		t.Error("console should be disabled by the file")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	days, _ := cfg.Days()
	if days != 504 {
		t.Errorf("days = %d", days)
	}
	s := cfg.Strategy()
	if s.Mode != strategy.ModeAdaptive || s.Density.MinPeaks != 3 || s.Density.MaxPeaks != 8 {
		t.Errorf("strategy = %+v", s)
	}
	if s.Label(1) != "b" || s.MinBars != 125 {
		t.Errorf("strategy labels/min bars = %v %d", s.Labels, s.MinBars)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad range", func(c *Config) { c.DataSource.Range = "5y" }, true},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }, true},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "ftp" }, true},
		{"empty peaks range", func(c *Config) { c.Analysis.PeaksRange = []int{9, 2} }, true},
		{"label mismatch", func(c *Config) { c.Analysis.TimeframeLabels = []string{"x"} }, true},
		{"unknown strategy", func(c *Config) { c.Analysis.Strategy = "magic" }, true},
		{"tickers file only", func(c *Config) { c.Tickers.List = nil; c.Tickers.File = "t.txt" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.Tickers.List = []string{"AAPL"}
			c.applyDefaults()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
