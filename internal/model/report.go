package model

import "time"

// Analysis is the ranked unit of output: one ticker with its score and
// projection.
type Analysis struct {
	Ticker       string
	Name         string
	CurrentPrice float64
	Score        *FactorScore
	Projection   *GrowthProjection
}

// RunReport aggregates one full pipeline run.
type RunReport struct {
	RunID        string
	GeneratedAt  time.Time
	UniverseSize int
	Analyzed     int
	Skipped      int
	MarketLabel  string
	MarketDetail string
	Results      []Analysis
}
