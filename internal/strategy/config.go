package strategy

import (
	"fmt"

	"LevelScope/internal/calculator"
)

// Mode selects how the trend lookbacks are chosen.
type Mode string

const (
	// ModeFixed uses the configured timeframes as-is.
	ModeFixed Mode = "fixed"
	// ModeAdaptive stretches the second and third lookbacks until their trend
	// angles agree with the longer ones.
	ModeAdaptive Mode = "adaptive"
)

// Config holds every tunable of the analysis pipeline.
type Config struct {
	Mode       Mode
	Timeframes []int    // longest first
	Labels     []string // one per timeframe, e.g. "6m"
	Step       int
	Smoothing  int
	Density    calculator.DensityConfig

	DisplayStart  int // first bar of the charted bound lines
	DisplayExtend int // bars charted past the end of history

	MinBars       int
	MaxZeroVolume int

	AngleLimit         float64
	AngleTolerance     float64
	AngleToleranceNext float64

	Workers int // concurrent timeframe fits; <=0 means one per timeframe
}

// DefaultConfig returns the production defaults: 6m, 3m, 1m, 10d, 5d, 1d.
func DefaultConfig() Config {
	return Config{
		Mode:               ModeFixed,
		Timeframes:         []int{126, 63, 21, 10, 5, 1},
		Labels:             []string{"6m", "3m", "1m", "10d", "5d", "1d"},
		Step:               5,
		Smoothing:          3,
		Density:            calculator.DefaultDensityConfig(),
		DisplayStart:       10,
		DisplayExtend:      180,
		MinBars:            125,
		MaxZeroVolume:      20,
		AngleLimit:         45,
		AngleTolerance:     10,
		AngleToleranceNext: 20,
	}
}

// Label returns the display label of the i-th timeframe.
func (c Config) Label(i int) string {
	if i < len(c.Labels) && c.Labels[i] != "" {
		return c.Labels[i]
	}
	return fmt.Sprintf("%db", c.Timeframes[i])
}

// Validate checks the pipeline settings.
func (c Config) Validate() error {
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("at least one timeframe is required")
	}
	for _, tf := range c.Timeframes {
		if tf <= 0 {
			return fmt.Errorf("timeframe %d must be positive", tf)
		}
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive")
	}
	if c.Smoothing <= 0 {
		return fmt.Errorf("smoothing must be positive")
	}
	if c.Density.MinPeaks > c.Density.MaxPeaks {
		return fmt.Errorf("peaks range [%d,%d] is empty", c.Density.MinPeaks, c.Density.MaxPeaks)
	}
	if c.Mode != ModeFixed && c.Mode != ModeAdaptive {
		return fmt.Errorf("unknown strategy mode %q", c.Mode)
	}
	if c.Mode == ModeAdaptive && len(c.Timeframes) < 3 {
		return fmt.Errorf("adaptive mode needs at least 3 timeframes")
	}
	return nil
}

// DisplayFor returns the bar range the channel bounds are drawn over for a
// series of n bars.
func (c Config) DisplayFor(n int) calculator.DisplayRange {
	return calculator.DisplayRange{Start: c.DisplayStart, End: n + c.DisplayExtend}
}
