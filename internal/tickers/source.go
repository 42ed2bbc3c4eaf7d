package tickers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// Source provides the ordered list of tickers to analyze. Blank entries are
// kept as empty strings so output rows stay aligned with the input.
type Source interface {
	Tickers(ctx context.Context) ([]string, error)
}

// StaticSource serves a fixed list, typically from the config file.
type StaticSource struct {
	List []string
}

func (s StaticSource) Tickers(_ context.Context) ([]string, error) {
	return lo.Map(s.List, func(t string, _ int) string { return normalize(t) }), nil
}

// FileSource reads one ticker per line. Lines starting with '#' are comments;
// only the first comma or whitespace separated field of a line is used.
type FileSource struct {
	Path string
}

func (s FileSource) Tickers(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open tickers file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out = append(out, normalize(firstField(line)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tickers file: %w", err)
	}
	// trailing blank lines carry no rows
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Valid returns the non-blank tickers, de-duplicated, in first-seen order.
func Valid(list []string) []string {
	return lo.Uniq(lo.Filter(list, func(t string, _ int) bool { return t != "" }))
}

func firstField(line string) string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func normalize(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
