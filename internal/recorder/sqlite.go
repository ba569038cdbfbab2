package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"CanslimScout/internal/model"
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

	// WAL mode so external readers don't block the writer.
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
			run_id        TEXT PRIMARY KEY,
			generated_at  INTEGER NOT NULL,
			universe_size INTEGER,
			analyzed      INTEGER,
			skipped       INTEGER,
			market_label  TEXT,
			market_detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(generated_at)`,

		`CREATE TABLE IF NOT EXISTS run_results (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			position         INTEGER NOT NULL,
			ticker           TEXT NOT NULL,
			name             TEXT,
			current_price    REAL,
			score_c          REAL,
			score_a          REAL,
			score_n          REAL,
			score_s          REAL,
			score_l          REAL,
			score_i          REAL,
			score_m          REAL,
			score_total      REAL,
			projected_growth REAL,
			projected_price  REAL,
			momentum         REAL,
			earnings         REAL,
			canslim          REAL,
			sector           REAL,
			confidence       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON run_results(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes one run header row plus one row per ranked result.
func (r *SQLiteRecorder) RecordRun(report *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, generated_at, universe_size, analyzed, skipped, market_label, market_detail)
		VALUES (?,?,?,?,?,?,?)`,
		report.RunID, report.GeneratedAt.Unix(), report.UniverseSize,
		report.Analyzed, report.Skipped, report.MarketLabel, report.MarketDetail,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, a := range report.Results {
		s, p := a.Score, a.Projection
		_, err = tx.Exec(`INSERT INTO run_results
			(run_id, position, ticker, name, current_price,
			 score_c, score_a, score_n, score_s, score_l, score_i, score_m, score_total,
			 projected_growth, projected_price, momentum, earnings, canslim, sector, confidence)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			report.RunID, i+1, a.Ticker, a.Name, a.CurrentPrice,
			s.CurrentEarnings, s.AnnualEarnings, s.NewHighs, s.SupplyDemand,
			s.Leader, s.Institutional, s.Market, s.Total,
			p.ProjectedGrowthPct, p.ProjectedPrice,
			p.MomentumComponent, p.EarningsComponent, p.CanslimComponent, p.SectorComponent,
			string(p.Confidence),
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", a.Ticker, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
