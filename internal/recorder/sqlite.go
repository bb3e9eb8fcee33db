package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"FxHedger/internal/model"
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
	// One connection keeps ":memory:" databases alive across statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS hedge_runs (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			source               TEXT,
			commodity_ticker     TEXT NOT NULL,
			forex_ticker         TEXT NOT NULL,
			start_date           TEXT NOT NULL,
			end_date             TEXT NOT NULL,
			exposure             REAL,
			hedge_ratio          REAL,
			correlation          REAL,
			recommended_exposure REAL,
			observations         INTEGER,
			error                TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hedge_runs_ts ON hedge_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := rec.At
	if at.IsZero() {
		at = time.Now()
	}
	res, err := r.db.Exec(`INSERT INTO hedge_runs
		(timestamp, source, commodity_ticker, forex_ticker, start_date, end_date,
		 exposure, hedge_ratio, correlation, recommended_exposure, observations, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		at.Unix(), rec.Source, rec.CommodityTicker, rec.ForexTicker,
		rec.Start.Format(model.DateLayout), rec.End.Format(model.DateLayout),
		rec.Exposure, rec.HedgeRatio, rec.Correlation, rec.RecommendedExposure,
		rec.Observations, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert hedge run: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all runs.
func (r *SQLiteRecorder) ListRuns(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(`SELECT id, timestamp, source, commodity_ticker, forex_ticker,
		start_date, end_date, exposure, hedge_ratio, correlation, recommended_exposure,
		observations, error
		FROM hedge_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query hedge runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			ts         int64
			start, end string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Source, &rec.CommodityTicker, &rec.ForexTicker,
			&start, &end, &rec.Exposure, &rec.HedgeRatio, &rec.Correlation,
			&rec.RecommendedExposure, &rec.Observations, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan hedge run: %w", err)
		}
		rec.At = time.Unix(ts, 0)
		rec.Start, _ = time.Parse(model.DateLayout, start)
		rec.End, _ = time.Parse(model.DateLayout, end)
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Debug().Msg("closing sqlite recorder")
	return r.db.Close()
}
