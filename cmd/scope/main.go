package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"LevelScope/internal/chart"
	"LevelScope/internal/collector"
	"LevelScope/internal/config"
	"LevelScope/internal/exporter"
	"LevelScope/internal/notifier"
	"LevelScope/internal/recorder"
	"LevelScope/internal/scheduler"
	"LevelScope/internal/tickers"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] LevelScope starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	days, _ := cfg.Days()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var snapshot *collector.SnapshotWriter
	if cfg.DataSource.SnapshotDir != "" {
		snapshot = collector.NewSnapshotWriter(cfg.DataSource.SnapshotDir)
	}
	col := collector.NewCollector(fetcher, days, cfg.DataSource.MinBars, snapshot)

	// Ticker list
	var src tickers.Source = tickers.StaticSource{List: cfg.Tickers.List}
	if cfg.Tickers.File != "" {
		src = tickers.FileSource{Path: cfg.Tickers.File}
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Enabled() {
		log.Println("[WARN] telegram not configured, notifications disabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	strat := cfg.Strategy()
	sched := scheduler.NewScheduler(ctx, col, src, strat, rec)
	sched.Notifier = tn
	sched.Workers = cfg.Workers
	sched.CSV = exporter.NewCSVWriter(cfg.Output.CSVPath, strat.Labels)
	sched.Charts = chart.NewRenderer(cfg.Output.ChartDir, cfg.Analysis.DateTick, cfg.Analysis.DisplayExtend)
	if cfg.Output.Console {
		sched.Console = os.Stdout
	}

	if os.Getenv("RUN_ONCE") == "true" {
		log.Println("[INFO] RUN_ONCE enabled, running a single batch")
		if _, err := sched.RunNow(ctx); err != nil {
			log.Printf("[ERROR] analysis run: %v", err)
			cancel()
			os.Exit(1)
		}
		log.Println("[INFO] LevelScope stopped")
		return
	}

	if err := sched.Register(cfg.Schedule.AnalysisCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil {
				log.Printf("[ERROR] analysis run: %v", err)
			}
		}()
	}

	log.Printf("[INFO] LevelScope is running (%s). Press Ctrl+C to stop.", cfg.Schedule.AnalysisCron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] LevelScope stopped")
}
