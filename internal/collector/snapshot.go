package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"LevelScope/internal/model"
)

// SnapshotWriter saves each download as <dir>/<symbol>_<date>.csv.
type SnapshotWriter struct {
	Dir string
	Now func() time.Time
}

// NewSnapshotWriter creates a writer rooted at dir.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{Dir: dir, Now: time.Now}
}

// Write stores the series and returns the file path.
func (w *SnapshotWriter) Write(series *model.PriceSeries) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.csv", series.Symbol, w.Now().Format("2006-01-02"))
	path := filepath.Join(w.Dir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"}); err != nil {
		return "", err
	}
	for _, b := range series.Bars {
		rec := []string{
			b.Time.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
