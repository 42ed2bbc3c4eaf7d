package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"LevelScope/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			tickers     INTEGER,
			succeeded   INTEGER,
			skipped     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS ticker_reports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			status     TEXT,
			reason     TEXT,
			bars       INTEGER,
			last_close REAL,
			bandwidth  REAL,
			trials     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_run ON ticker_reports(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_symbol ON ticker_reports(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS levels (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id INTEGER NOT NULL,
			price     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_report ON levels(report_id)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id  INTEGER NOT NULL,
			label      TEXT,
			timeframe  INTEGER,
			at_bar     INTEGER,
			min_price  REAL,
			max_price  REAL,
			status     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_report ON predictions(report_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *model.RunSummary) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO runs
		(started_at, finished_at, tickers, succeeded, skipped)
		VALUES (?,?,?,?,?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Tickers, run.Succeeded, run.Skipped,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordReport writes the report and its children in one transaction.
func (r *SQLiteRecorder) RecordReport(runID int64, report *model.TickerReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := report.AnalyzedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO ticker_reports
		(run_id, timestamp, symbol, status, reason, bars, last_close, bandwidth, trials)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		runID, ts.Unix(), report.Symbol, string(report.Status), report.Reason,
		report.Bars, report.LastClose, report.Levels.Bandwidth, report.Levels.Trials,
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.Symbol, err)
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range report.Levels.Prices {
		if _, err := tx.Exec(`INSERT INTO levels (report_id, price) VALUES (?,?)`, reportID, p); err != nil {
			return fmt.Errorf("insert level: %w", err)
		}
	}
	for _, p := range report.Predictions {
		if _, err := tx.Exec(`INSERT INTO predictions
			(report_id, label, timeframe, at_bar, min_price, max_price, status)
			VALUES (?,?,?,?,?,?,?)`,
			reportID, p.Label, p.Timeframe, p.At, p.Min, p.Max, string(p.Status),
		); err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
