// Package pipeline runs the full analysis: score and project every ticker
// in the universe with a bounded worker pool, then rank the survivors.
package pipeline

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/model"
	"CanslimScout/internal/projection"
	"CanslimScout/internal/scoring"
)

const (
	// DefaultWorkers bounds concurrent per-ticker analyses. One worker gives
	// a strictly sequential run.
	DefaultWorkers = 4
	// DefaultTickerTimeout bounds one ticker's analysis; exceeding it skips
	// the ticker rather than failing the run.
	DefaultTickerTimeout = 60 * time.Second
	// DefaultTopN is how many ranked results a report carries.
	DefaultTopN = 5
)

// Pipeline analyzes a ticker universe against a shared data store.
type Pipeline struct {
	store         *marketdata.Store
	sectorETFs    map[string]string
	workers       int
	tickerTimeout time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets the worker-pool size.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithTickerTimeout sets the per-ticker analysis deadline.
func WithTickerTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.tickerTimeout = d
		}
	}
}

// New creates a Pipeline. sectorETFs feeds the growth projector's sector
// component.
func New(store *marketdata.Store, sectorETFs map[string]string, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:         store,
		sectorETFs:    sectorETFs,
		workers:       DefaultWorkers,
		tickerTimeout: DefaultTickerTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run analyzes the given tickers and returns the top-N ranked report.
// Tickers that cannot be analyzed are skipped, never fatal. A fresh scorer
// and projector per run keeps the market-direction and sector memos scoped
// to one run's cache window.
func (p *Pipeline) Run(ctx context.Context, tickers []string, topN int) *model.RunReport {
	runID := uuid.NewString()
	scorer := scoring.NewScorer(p.store)
	projector := projection.NewProjector(p.store, p.sectorETFs)

	// Resolve the shared market factor up front so workers reuse the memo.
	marketLabel, marketDetail := scorer.MarketLabel(ctx)
	log.Printf("[INFO] run %s: market %s (%s), analyzing %d tickers with %d workers",
		runID, marketLabel, marketDetail, len(tickers), p.workers)

	jobs := make(chan string)
	out := make(chan *model.Analysis)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				out <- p.analyzeOne(ctx, scorer, projector, ticker)
			}
		}()
	}
	go func() {
		for _, ticker := range tickers {
			jobs <- ticker
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	var results []model.Analysis
	for analysis := range out {
		if analysis != nil {
			results = append(results, *analysis)
		}
	}

	// Deterministic rank: growth descending, ticker ascending on ties.
	sort.Slice(results, func(i, j int) bool {
		gi, gj := results[i].Projection.ProjectedGrowthPct, results[j].Projection.ProjectedGrowthPct
		if gi != gj {
			return gi > gj
		}
		return results[i].Ticker < results[j].Ticker
	})

	analyzed := len(results)
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}

	return &model.RunReport{
		RunID:        runID,
		GeneratedAt:  time.Now(),
		UniverseSize: len(tickers),
		Analyzed:     analyzed,
		Skipped:      len(tickers) - analyzed,
		MarketLabel:  marketLabel,
		MarketDetail: marketDetail,
		Results:      results,
	}
}

// analyzeOne scores and projects a single ticker. Missing data, a timeout,
// or a panic all yield nil so the run continues.
func (p *Pipeline) analyzeOne(ctx context.Context, scorer *scoring.Scorer, projector *projection.Projector, ticker string) (analysis *model.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] analysis of %s panicked, skipping: %v", ticker, r)
			analysis = nil
		}
	}()

	tctx, cancel := context.WithTimeout(ctx, p.tickerTimeout)
	defer cancel()

	quote, ok := p.store.Snapshot(tctx, ticker)
	if !ok || !quote.HasPrice() {
		log.Printf("[INFO] skipping %s: no usable price snapshot", ticker)
		return nil
	}

	score := scorer.Score(tctx, ticker)
	proj, ok := projector.Project(tctx, ticker, score)
	if !ok {
		log.Printf("[INFO] skipping %s: projection unavailable", ticker)
		return nil
	}
	if tctx.Err() != nil {
		log.Printf("[ERROR] analysis of %s timed out, skipping", ticker)
		return nil
	}

	return &model.Analysis{
		Ticker:       ticker,
		Name:         quote.ShortName,
		CurrentPrice: quote.CurrentPrice,
		Score:        score,
		Projection:   proj,
	}
}
