package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"CanslimScout/internal/model"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	report := &model.RunReport{
		RunID:        "run-abc",
		GeneratedAt:  time.Now(),
		UniverseSize: 10,
		Analyzed:     2,
		Skipped:      8,
		MarketLabel:  "NEUTRAL",
		MarketDetail: "mixed market (price above MA200 only)",
		Results: []model.Analysis{
			{
				Ticker: "AAA", Name: "Alpha", CurrentPrice: 100,
				Score:      &model.FactorScore{Ticker: "AAA", Total: 80},
				Projection: &model.GrowthProjection{Ticker: "AAA", ProjectedGrowthPct: 20, Confidence: model.ConfidenceHigh},
			},
			{
				Ticker: "CCC", Name: "Gamma", CurrentPrice: 50,
				Score:      &model.FactorScore{Ticker: "CCC", Total: 40},
				Projection: &model.GrowthProjection{Ticker: "CCC", ProjectedGrowthPct: -5, Confidence: model.ConfidenceLow},
			},
		},
	}

	if err := r.RecordRun(report); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	var runs, results int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM run_results WHERE run_id = 'run-abc'").Scan(&results); err != nil {
		t.Fatalf("count results: %v", err)
	}
	if runs != 1 || results != 2 {
		t.Errorf("rows = %d runs, %d results, want 1 and 2", runs, results)
	}

	var ticker string
	var position int
	if err := r.db.QueryRow("SELECT ticker, position FROM run_results ORDER BY position LIMIT 1").Scan(&ticker, &position); err != nil {
		t.Fatalf("select first result: %v", err)
	}
	if ticker != "AAA" || position != 1 {
		t.Errorf("first result = %s at %d, want AAA at 1", ticker, position)
	}

	// A second run must not collide with the first.
	report.RunID = "run-def"
	if err := r.RecordRun(report); err != nil {
		t.Fatalf("RecordRun (second): %v", err)
	}
}
