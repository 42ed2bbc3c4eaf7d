package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"LevelScope/internal/model"
)

// CSVWriter writes the prediction grid that downstream spreadsheets import.
type CSVWriter struct {
	Path   string
	Labels []string
}

// NewCSVWriter creates a writer for the given output path.
func NewCSVWriter(path string, labels []string) *CSVWriter {
	return &CSVWriter{Path: path, Labels: labels}
}

// Write replaces the file with a header and one row per report, in order.
func (w *CSVWriter) Write(reports []model.TickerReport) error {
	if dir := filepath.Dir(w.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := w.Path + ".tmp"
	if err := writeRows(tmp, w.Labels, reports); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, w.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename csv: %w", err)
	}
	return nil
}

func writeRows(path string, labels []string, reports []model.TickerReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Header(labels)); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range reports {
		if err := cw.Write(Row(r, len(labels))); err != nil {
			f.Close()
			return fmt.Errorf("write row %s: %w", r.Symbol, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}
