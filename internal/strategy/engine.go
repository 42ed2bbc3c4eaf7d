package strategy

import (
	"context"
	"fmt"
	"time"

	"LevelScope/internal/calculator"
	"LevelScope/internal/model"
)

// Evaluate runs the whole analysis for one ticker: support/resistance levels
// from close extrema and one trend channel prediction per timeframe. Data
// problems are reported through the status of the returned report.
func Evaluate(ctx context.Context, series *model.PriceSeries, cfg Config) (model.TickerReport, error) {
	report := model.TickerReport{
		Symbol:     series.Symbol,
		Bars:       series.Len(),
		LastClose:  series.LastClose(),
		Series:     series,
		AnalyzedAt: time.Now(),
	}

	if cfg.MinBars > 0 && series.Len() < cfg.MinBars {
		report.Status = model.StatusInsufficientData
		report.Reason = fmt.Sprintf("only %d bars, need %d", series.Len(), cfg.MinBars)
		return report, nil
	}
	if zero := series.ZeroVolumeBars(); cfg.MaxZeroVolume > 0 && zero > cfg.MaxZeroVolume {
		report.Status = model.StatusInsufficientData
		report.Reason = fmt.Sprintf("%d bars without volume", zero)
		return report, nil
	}

	extrema := calculator.FindExtrema(series.Closes())
	report.Levels = calculator.SupportResistance(extrema.Prices, cfg.Density)

	var (
		channels []model.TrendChannel
		preds    []model.Prediction
		err      error
	)
	if cfg.Mode == ModeAdaptive {
		lookbacks, ok := AdaptiveTimeframes(series, cfg)
		if !ok {
			report.Status = model.StatusImpossible
			report.Reason = "short and long term trends diverge"
			return report, nil
		}
		channels, preds, err = PredictAdaptive(ctx, series, cfg, lookbacks)
	} else {
		channels, preds, err = Predict(ctx, series, cfg, cfg.Timeframes)
	}
	if err != nil {
		return report, fmt.Errorf("predict %s: %w", series.Symbol, err)
	}
	report.Channels = channels
	report.Predictions = preds
	report.Status = model.StatusOK
	return report, nil
}
