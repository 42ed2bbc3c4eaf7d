package recorder

import "LevelScope/internal/model"

// Recorder persists run history for later analysis.
type Recorder interface {
	// RecordRun stores a batch summary and returns its run id.
	RecordRun(run *model.RunSummary) (int64, error)
	// RecordReport stores one ticker's levels and predictions under runID.
	RecordReport(runID int64, report *model.TickerReport) error
	Close() error
}
