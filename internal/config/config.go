package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"LevelScope/internal/calculator"
	"LevelScope/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Analysis struct {
		PeaksRange          []int    `yaml:"peaks_range"`
		GridSize            int      `yaml:"grid_size"`
		BandwidthDivisor    float64  `yaml:"bandwidth_divisor"`
		MaxBandwidthSteps   int      `yaml:"max_bandwidth_steps"`
		Timeframes          []int    `yaml:"timeframes"`
		TimeframeLabels     []string `yaml:"timeframe_labels"`
		Step                int      `yaml:"step"`
		Smoothing           int      `yaml:"smoothing"`
		Strategy            string   `yaml:"strategy"`
		AngleLimit          float64  `yaml:"angle_limit"`
		AngleTolerance      float64  `yaml:"angle_tolerance"`
		AngleToleranceShort float64  `yaml:"angle_tolerance_short"`
		DisplayStart        int      `yaml:"display_start"`
		DisplayExtend       int      `yaml:"display_extend"`
		DateTick            int      `yaml:"date_tick"`
	} `yaml:"analysis"`
	DataSource struct {
		Provider      string `yaml:"provider"` // yahoo, rest or mock
		BaseURL       string `yaml:"base_url"`
		APIKey        string `yaml:"api_key"`
		Range         string `yaml:"range"`
		MinBars       int    `yaml:"min_bars"`
		MaxZeroVolume int    `yaml:"max_zero_volume"`
		SnapshotDir   string `yaml:"snapshot_dir"`
	} `yaml:"data_source"`
	Tickers struct {
		List []string `yaml:"list"`
		File string   `yaml:"file"`
	} `yaml:"tickers"`
	Output struct {
		CSVPath  string `yaml:"csv_path"`
		ChartDir string `yaml:"chart_dir"`
		Console  bool   `yaml:"console"`
	} `yaml:"output"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy   string `yaml:"proxy"`
	Workers int    `yaml:"workers"`
}

// Load reads config from a YAML file, loads an optional .env file next to the
// working directory, then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Output.Console = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers.List = strings.Split(v, ",")
	}
	if v := os.Getenv("TICKERS_FILE"); v != "" {
		cfg.Tickers.File = v
	}
	if v := os.Getenv("ANALYSIS_STRATEGY"); v != "" {
		cfg.Analysis.Strategy = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("OUTPUT_CSV"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := strategy.DefaultConfig()
	a := &c.Analysis
	if len(a.PeaksRange) == 0 {
		a.PeaksRange = []int{def.Density.MinPeaks, def.Density.MaxPeaks}
	}
	if a.GridSize == 0 {
		a.GridSize = def.Density.GridSize
	}
	if a.BandwidthDivisor == 0 {
		a.BandwidthDivisor = def.Density.BandwidthDivisor
	}
	if a.MaxBandwidthSteps == 0 {
		a.MaxBandwidthSteps = def.Density.MaxSteps
	}
	if len(a.Timeframes) == 0 {
		a.Timeframes = def.Timeframes
		if len(a.TimeframeLabels) == 0 {
			a.TimeframeLabels = def.Labels
		}
	}
	if a.Step == 0 {
		a.Step = def.Step
	}
	if a.Smoothing == 0 {
		a.Smoothing = def.Smoothing
	}
	if a.Strategy == "" {
		a.Strategy = string(def.Mode)
	}
	if a.AngleLimit == 0 {
		a.AngleLimit = def.AngleLimit
	}
	if a.AngleTolerance == 0 {
		a.AngleTolerance = def.AngleTolerance
	}
	if a.AngleToleranceShort == 0 {
		a.AngleToleranceShort = def.AngleToleranceNext
	}
	if a.DisplayStart == 0 {
		a.DisplayStart = def.DisplayStart
	}
	if a.DisplayExtend == 0 {
		a.DisplayExtend = def.DisplayExtend
	}
	if a.DateTick == 0 {
		a.DateTick = 5
	}

	d := &c.DataSource
	if d.Provider == "" {
		d.Provider = "yahoo"
		if d.BaseURL != "" {
			d.Provider = "rest"
		}
	}
	if d.Range == "" {
		d.Range = "1y"
	}
	if d.MinBars == 0 {
		d.MinBars = def.MinBars
	}
	if d.MaxZeroVolume == 0 {
		d.MaxZeroVolume = def.MaxZeroVolume
	}
	if d.SnapshotDir == "" {
		d.SnapshotDir = "data"
	}

	if c.Output.CSVPath == "" {
		c.Output.CSVPath = "data/predictions.csv"
	}
	if c.Output.ChartDir == "" {
		c.Output.ChartDir = "data/charts"
	}
	if c.Schedule.AnalysisCron == "" {
		c.Schedule.AnalysisCron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/levelscope.db"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers.List) == 0 && c.Tickers.File == "" {
		return fmt.Errorf("tickers.list or tickers.file is required")
	}
	if len(c.Analysis.PeaksRange) != 2 {
		return fmt.Errorf("analysis.peaks_range must have two values")
	}
	if c.Analysis.PeaksRange[0] < 1 {
		return fmt.Errorf("analysis.peaks_range lower bound must be positive")
	}
	if c.Analysis.BandwidthDivisor <= 0 {
		return fmt.Errorf("analysis.bandwidth_divisor must be positive")
	}
	if c.Analysis.GridSize < 3 {
		return fmt.Errorf("analysis.grid_size must be at least 3")
	}
	if len(c.Analysis.TimeframeLabels) > 0 && len(c.Analysis.TimeframeLabels) != len(c.Analysis.Timeframes) {
		return fmt.Errorf("analysis.timeframe_labels must match analysis.timeframes")
	}
	if _, err := c.Days(); err != nil {
		return err
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return c.Strategy().Validate()
}

// Days converts data_source.range into a number of trading days.
func (c *Config) Days() (int, error) {
	switch strings.ToLower(c.DataSource.Range) {
	case "1mo":
		return 21, nil
	case "3mo":
		return 63, nil
	case "6mo":
		return 126, nil
	case "1y":
		return 252, nil
	case "2y":
		return 504, nil
	}
	return 0, fmt.Errorf("unsupported data_source.range %q", c.DataSource.Range)
}

// Strategy builds the analysis pipeline settings.
func (c *Config) Strategy() strategy.Config {
	a := c.Analysis
	s := strategy.Config{
		Mode:       strategy.Mode(a.Strategy),
		Timeframes: a.Timeframes,
		Labels:     a.TimeframeLabels,
		Step:       a.Step,
		Smoothing:  a.Smoothing,
		Density: calculator.DensityConfig{
			GridSize:         a.GridSize,
			BandwidthDivisor: a.BandwidthDivisor,
			MaxSteps:         a.MaxBandwidthSteps,
		},
		DisplayStart:       a.DisplayStart,
		DisplayExtend:      a.DisplayExtend,
		MinBars:            c.DataSource.MinBars,
		MaxZeroVolume:      c.DataSource.MaxZeroVolume,
		AngleLimit:         a.AngleLimit,
		AngleTolerance:     a.AngleTolerance,
		AngleToleranceNext: a.AngleToleranceShort,
	}
	if len(a.PeaksRange) == 2 {
		s.Density.MinPeaks = a.PeaksRange[0]
		s.Density.MaxPeaks = a.PeaksRange[1]
	}
	return s
}
