package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"LevelScope/internal/model"
)

var (
	// ErrUnavailable means the provider failed or returned nothing.
	ErrUnavailable = errors.New("price history unavailable")
	// ErrInsufficientData means the history is too short to analyze.
	ErrInsufficientData = errors.New("insufficient price history")
)

// Collector fetches and validates daily history for one ticker at a time.
type Collector struct {
	Fetcher  Fetcher
	Days     int
	MinBars  int
	Snapshot *SnapshotWriter // optional
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days, minBars int, snapshot *SnapshotWriter) *Collector {
	return &Collector{Fetcher: fetcher, Days: days, MinBars: minBars, Snapshot: snapshot}
}

// Collect downloads the daily history of symbol. Provider failures wrap
// ErrUnavailable; short histories wrap ErrInsufficientData.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no bars returned", ErrUnavailable, symbol)
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
	if c.Snapshot != nil {
		if path, err := c.Snapshot.Write(series); err != nil {
			log.Printf("[WARN] snapshot %s: %v", symbol, err)
		} else {
			log.Printf("[INFO] snapshot %s saved to %s", symbol, path)
		}
	}

	if len(bars) < c.MinBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientData, symbol, len(bars), c.MinBars)
	}
	return series, nil
}
