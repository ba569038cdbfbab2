// Package scheduler runs the analysis pipeline on a cron schedule and
// serves Telegram commands in daemon mode.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/notifier"
	"CanslimScout/internal/pipeline"
	"CanslimScout/internal/recorder"
	"CanslimScout/internal/report"
	"CanslimScout/internal/scoring"
)

// TickerSource resolves the universe of tickers for a run.
type TickerSource interface {
	Tickers(ctx context.Context) []string
}

// Scheduler manages the cron task and command handling.
type Scheduler struct {
	Cron     *cron.Cron
	Ctx      context.Context
	store    *marketdata.Store
	universe TickerSource
	pipeline *pipeline.Pipeline
	notifier *notifier.TelegramNotifier // nil when Telegram is not configured
	recorder recorder.RunRecorder
	topN     int

	// Serializes analysis runs triggered by cron and by command.
	runMu sync.Mutex
}

// New creates a Scheduler.
func New(ctx context.Context, store *marketdata.Store, src TickerSource, pipe *pipeline.Pipeline, tn *notifier.TelegramNotifier, rec recorder.RunRecorder, topN int) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ctx:      ctx,
		store:    store,
		universe: src,
		pipeline: pipe,
		notifier: tn,
		recorder: rec,
		topN:     topN,
	}
}

// Register registers the scheduled analysis task.
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

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAnalysisNow executes the analysis task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunAnalysisNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	log.Println("[INFO] running scheduled analysis")
	tickers := s.universe.Tickers(s.Ctx)
	rep := s.pipeline.Run(s.Ctx, tickers, s.topN)

	s.trySend(report.FormatTelegram(rep))

	if err := s.recorder.RecordRun(rep); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/analyze":
		s.analysisTask()
		return ""
	case "/market":
		scorer := scoring.NewScorer(s.store)
		label, detail := scorer.MarketLabel(s.Ctx)
		return report.FormatMarketStatus(label, detail)
	default:
		return "Available commands:\n/analyze - run the full screen now\n/market - current market direction"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
