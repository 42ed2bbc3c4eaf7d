package recorder

import "LevelScope/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.RunSummary) (int64, error)      { return 0, nil }
func (n *NoopRecorder) RecordReport(_ int64, _ *model.TickerReport) error { return nil }
func (n *NoopRecorder) Close() error                                      { return nil }
