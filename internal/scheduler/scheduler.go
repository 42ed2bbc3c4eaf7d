package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"LevelScope/internal/chart"
	"LevelScope/internal/collector"
	"LevelScope/internal/exporter"
	"LevelScope/internal/model"
	"LevelScope/internal/notifier"
	"LevelScope/internal/recorder"
	"LevelScope/internal/strategy"
	"LevelScope/internal/tickers"
)

// ErrBusy is returned when a batch is requested while another one runs.
var ErrBusy = errors.New("analysis already running")

// Batch is the outcome of one run over the ticker list.
type Batch struct {
	Summary model.RunSummary
	Reports []model.TickerReport // same order as the ticker list
}

// Scheduler runs the analysis batch on a cron schedule or on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Tickers   tickers.Source
	Strategy  strategy.Config
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier // optional
	CSV       *exporter.CSVWriter        // optional
	Charts    *chart.Renderer            // optional
	Console   io.Writer                  // optional
	Workers   int
	Ctx       context.Context

	mu      sync.Mutex
	running bool
	last    *Batch
}

// NewScheduler creates a new Scheduler. Outputs are attached through the
// exported fields.
func NewScheduler(ctx context.Context, col *collector.Collector, src tickers.Source, cfg strategy.Config, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Tickers:   src,
		Strategy:  cfg,
		Recorder:  rec,
		Workers:   1,
		Ctx:       ctx,
	}
}

// Register schedules the analysis batch.
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Last returns the most recent completed batch, if any.
func (s *Scheduler) Last() *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) analysisTask() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		log.Printf("[ERROR] analysis run: %v", err)
		if !errors.Is(err, ErrBusy) {
			s.trySend(fmt.Sprintf("❌ analysis run failed: %v", err))
		}
	}
}

// RunNow analyzes every ticker, then exports, records and notifies. A failing
// ticker only affects its own row.
func (s *Scheduler) RunNow(ctx context.Context) (*Batch, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := time.Now()
	list, err := s.Tickers.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tickers: %w", err)
	}
	log.Printf("[INFO] running analysis for %d tickers (%d distinct)", len(list), len(tickers.Valid(list)))

	reports := make([]model.TickerReport, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for i, symbol := range list {
		g.Go(func() error {
			reports[i] = s.analyze(gctx, symbol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// repeated tickers share one chart file
	charted := make(map[string]bool)
	for _, r := range reports {
		if r.OK() && !charted[r.Symbol] {
			charted[r.Symbol] = true
			s.renderChart(r)
		}
	}

	ok := lo.CountBy(reports, func(r model.TickerReport) bool { return r.OK() })
	batch := &Batch{
		Summary: model.RunSummary{
			StartedAt:  started,
			FinishedAt: time.Now(),
			Tickers:    len(list),
			Succeeded:  ok,
			Skipped:    len(list) - ok,
		},
		Reports: reports,
	}
	s.publish(batch)

	s.mu.Lock()
	s.last = batch
	s.mu.Unlock()
	log.Printf("[INFO] analysis finished: %d ok, %d skipped in %s",
		batch.Summary.Succeeded, batch.Summary.Skipped, batch.Summary.FinishedAt.Sub(started).Round(time.Millisecond))
	return batch, nil
}

// Analyze runs collect, evaluate and chart for one ticker. It never fails;
// problems are reported through the returned status.
func (s *Scheduler) Analyze(ctx context.Context, symbol string) model.TickerReport {
	report := s.analyze(ctx, symbol)
	if report.OK() {
		s.renderChart(report)
	}
	return report
}

func (s *Scheduler) analyze(ctx context.Context, symbol string) model.TickerReport {
	if symbol == "" {
		return model.TickerReport{Status: model.StatusInvalidTicker, Reason: "blank ticker", AnalyzedAt: time.Now()}
	}

	series, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		status := model.StatusUnavailable
		if errors.Is(err, collector.ErrInsufficientData) {
			status = model.StatusInsufficientData
		}
		log.Printf("[WARN] collect %s: %v", symbol, err)
		return model.TickerReport{Symbol: symbol, Status: status, Reason: err.Error(), AnalyzedAt: time.Now()}
	}

	report, err := strategy.Evaluate(ctx, series, s.Strategy)
	if err != nil {
		log.Printf("[ERROR] evaluate %s: %v", symbol, err)
		report.Status = model.StatusUnavailable
		report.Reason = err.Error()
		return report
	}
	if !report.OK() {
		log.Printf("[WARN] %s skipped: %s (%s)", symbol, report.Status, report.Reason)
	}
	return report
}

func (s *Scheduler) renderChart(report model.TickerReport) {
	if s.Charts == nil {
		return
	}
	if path, err := s.Charts.Render(report); err != nil {
		log.Printf("[ERROR] chart %s: %v", report.Symbol, err)
	} else {
		log.Printf("[INFO] chart %s saved to %s", report.Symbol, path)
	}
}

func (s *Scheduler) publish(b *Batch) {
	if s.CSV != nil {
		if err := s.CSV.Write(b.Reports); err != nil {
			log.Printf("[ERROR] write csv: %v", err)
		} else {
			log.Printf("[INFO] predictions written to %s", s.CSV.Path)
		}
	}
	if s.Console != nil {
		exporter.RenderTable(s.Console, b.Reports, s.Strategy.Labels)
	}

	runID, err := s.Recorder.RecordRun(&b.Summary)
	if err != nil {
		log.Printf("[ERROR] record run: %v", err)
	} else {
		for i := range b.Reports {
			if err := s.Recorder.RecordReport(runID, &b.Reports[i]); err != nil {
				log.Printf("[ERROR] record report %s: %v", b.Reports[i].Symbol, err)
			}
		}
	}

	s.trySend(notifier.FormatRunSummary(b.Summary, b.Reports))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/run":
		if _, err := s.RunNow(s.Ctx); err != nil {
			return fmt.Sprintf("❌ analysis run failed: %v", err)
		}
		// the summary is sent by the run itself
		return ""
	case "/last":
		last := s.Last()
		if last == nil {
			return "No analysis has run yet."
		}
		return notifier.FormatRunSummary(last.Summary, last.Reports)
	case "/ticker":
		if len(fields) < 2 {
			return "Usage: /ticker SYMBOL"
		}
		symbol := strings.ToUpper(fields[1])
		return notifier.FormatTickerReport(s.Analyze(s.Ctx, symbol))
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /run - analyze all tickers now\n• /last - last run summary\n• /ticker SYMBOL - analyze one ticker"

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
