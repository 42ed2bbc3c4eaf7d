package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"LevelScope/internal/model"
)

// palette cycles per timeframe, longest first.
var palette = []string{"#d62728", "#2ca02c", "#1f77b4", "#ff7f0e", "#9467bd", "#8c564b"}

// Renderer writes one HTML page per ticker with the levels, the trend
// channels and the turning points.
type Renderer struct {
	Dir      string
	DateTick int // label every n-th bar on the date axis
	Extend   int // future bars shown after the last date
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string, dateTick, extend int) *Renderer {
	if dateTick <= 0 {
		dateTick = 5
	}
	return &Renderer{Dir: dir, DateTick: dateTick, Extend: extend}
}

// Render writes <dir>/<symbol>.html and returns its path.
func (r *Renderer) Render(report model.TickerReport) (string, error) {
	if report.Series == nil || report.Series.Len() == 0 {
		return "", fmt.Errorf("chart %s: no price data", report.Symbol)
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(r.Dir, filepath.Base(report.Symbol)+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart: %w", err)
	}
	defer f.Close()
	if err := r.Write(f, report); err != nil {
		return "", err
	}
	return path, nil
}

// Write renders the page for report into w.
func (r *Renderer) Write(w io.Writer, report model.TickerReport) error {
	page := components.NewPage()
	page.PageTitle = report.Symbol
	page.AddCharts(
		r.levelsChart(report),
		r.channelChart(report),
		turningPoints(report),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart %s: %w", report.Symbol, err)
	}
	return nil
}

// axis returns the date labels of the history followed by Extend future
// offsets.
func (r *Renderer) axis(series *model.PriceSeries) []string {
	dates := series.Dates()
	for i := 1; i <= r.Extend; i++ {
		dates = append(dates, "+"+strconv.Itoa(i))
	}
	return dates
}

func (r *Renderer) xAxisOpts() charts.GlobalOpts {
	return charts.WithXAxisOpts(opts.XAxis{
		Name: "Dates",
		AxisLabel: &opts.AxisLabel{
			Interval: strconv.Itoa(r.DateTick - 1),
			Rotate:   45,
		},
	})
}

func (r *Renderer) levelsChart(report model.TickerReport) *charts.Kline {
	k := charts.NewKLine()
	k.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Support and Resistance - " + report.Symbol,
			Subtitle: fmt.Sprintf("%d levels, bandwidth %.4f", len(report.Levels.Prices), report.Levels.Bandwidth),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		r.xAxisOpts(),
	)

	data := make([]opts.KlineData, 0, report.Series.Len())
	for _, b := range report.Series.Bars {
		data = append(data, opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}})
	}
	marks := make([]opts.MarkLineNameYAxisItem, 0, len(report.Levels.Prices))
	for _, p := range report.Levels.Prices {
		marks = append(marks, opts.MarkLineNameYAxisItem{Name: fmt.Sprintf("%.2f", p), YAxis: p})
	}
	k.SetXAxis(report.Series.Dates()).AddSeries("Price", data,
		charts.WithMarkLineNameYAxisItemOpts(marks...),
	)
	return k
}

func (r *Renderer) channelChart(report model.TickerReport) *charts.Line {
	axis := r.axis(report.Series)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Trends - " + report.Symbol}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		r.xAxisOpts(),
	)

	closes := make([]opts.LineData, len(axis))
	for i := range closes {
		if i < report.Series.Len() {
			closes[i] = opts.LineData{Value: report.Series.Bars[i].Close}
		} else {
			closes[i] = opts.LineData{Value: nil}
		}
	}
	line.SetXAxis(axis).AddSeries("Close", closes,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "#000000", Width: 1}),
	)

	for i, ch := range report.Channels {
		if ch.Status != model.StatusOK {
			continue
		}
		label := fmt.Sprintf("%d bars", ch.Timeframe)
		if i < len(report.Predictions) && report.Predictions[i].Label != "" {
			label = report.Predictions[i].Label
		}
		style := charts.WithLineStyleOpts(opts.LineStyle{Color: palette[i%len(palette)], Width: 1, Type: "dashed"})
		line.AddSeries(label+" upper", boundSeries(len(axis), ch.Indices, ch.Upper), style)
		line.AddSeries(label+" lower", boundSeries(len(axis), ch.Indices, ch.Lower), style)
	}
	return line
}

// boundSeries places values at their bar indices on an axis of length n.
func boundSeries(n int, indices []int, values []float64) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: nil}
	}
	for k, x := range indices {
		if x >= 0 && x < n {
			out[x] = opts.LineData{Value: values[k]}
		}
	}
	return out
}

func turningPoints(report model.TickerReport) *charts.Scatter {
	s := charts.NewScatter()
	s.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Trend reversal points - " + report.Symbol,
			Subtitle: fmt.Sprintf("%d extrema", len(report.Levels.Extrema)),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "300px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Price", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 2}),
	)
	points := make([]opts.ScatterData, len(report.Levels.Extrema))
	for i, p := range report.Levels.Extrema {
		points[i] = opts.ScatterData{Value: []float64{p, 1}, SymbolSize: 6}
	}
	s.AddSeries("Extrema", points)
	return s
}
