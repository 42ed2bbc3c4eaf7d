package model

// Status tags the outcome of an analysis step. Fallback results carry a
// non-OK status instead of magic numbers so a genuine zero stays distinguishable.
type Status string

const (
	StatusOK               Status = "OK"
	StatusInsufficientData Status = "INSUFFICIENT_DATA"
	StatusDegenerate       Status = "DEGENERATE"
	StatusExhausted        Status = "EXHAUSTED"
	StatusImpossible       Status = "IMPOSSIBLE"
	StatusUnavailable      Status = "UNAVAILABLE"
	StatusInvalidTicker    Status = "INVALID_TICKER"
)

// Usable reports whether values tagged with s may be exported. An exhausted
// bandwidth search still yields a level set.
func (s Status) Usable() bool {
	return s == StatusOK || s == StatusExhausted
}
