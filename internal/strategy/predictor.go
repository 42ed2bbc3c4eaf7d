package strategy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"LevelScope/internal/calculator"
	"LevelScope/internal/model"
)

// Predict samples and fits one channel per timeframe and extrapolates each to
// bar timeframe+len(series). Results keep the order of timeframes. The
// timeframes share nothing, so they are fitted concurrently.
func Predict(ctx context.Context, series *model.PriceSeries, cfg Config, timeframes []int) ([]model.TrendChannel, []model.Prediction, error) {
	channels := make([]model.TrendChannel, len(timeframes))
	preds := make([]model.Prediction, len(timeframes))
	display := cfg.DisplayFor(series.Len())

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, tf := range timeframes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			windows := calculator.SampleWindows(series, tf, cfg.Step, cfg.Smoothing)
			ch, pred := calculator.FitChannel(windows, tf, series.Len(), display)
			pred.Label = cfg.Label(i)
			channels[i] = ch
			preds[i] = pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return channels, preds, nil
}

// PredictAdaptive fits channels on the first three adapted lookbacks and
// evaluates them at the configured horizons: the first two horizons on
// their own channels, every shorter horizon on the third channel.
func PredictAdaptive(ctx context.Context, series *model.PriceSeries, cfg Config, lookbacks []int) ([]model.TrendChannel, []model.Prediction, error) {
	fitted := min(len(lookbacks), 3)
	channels, _, err := Predict(ctx, series, cfg, lookbacks[:fitted])
	if err != nil {
		return nil, nil, err
	}
	n := series.Len()
	preds := make([]model.Prediction, len(cfg.Timeframes))
	for i, horizon := range cfg.Timeframes {
		pred := channels[min(i, fitted-1)].PredictAt(horizon, n)
		pred.Label = cfg.Label(i)
		preds[i] = pred
	}
	return channels, preds, nil
}
