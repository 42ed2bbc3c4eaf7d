package tickers

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStaticSource_KeepsBlanks(t *testing.T) {
	got, err := StaticSource{List: []string{" aapl", "", "msft "}}.Tickers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"AAPL", "", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.txt")
	content := "# watchlist\nAAPL\n\nmsft, Microsoft\nGOOG\tAlphabet\n\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileSource{Path: path}.Tickers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"AAPL", "", "MSFT", "GOOG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFileSource_Missing(t *testing.T) {
	if _, err := (FileSource{Path: "/nonexistent/tickers.txt"}).Tickers(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValid(t *testing.T) {
	got := Valid([]string{"AAPL", "", "MSFT", "AAPL", ""})
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
