package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"CanslimScout/internal/config"
	"CanslimScout/internal/marketdata"
	"CanslimScout/internal/notifier"
	"CanslimScout/internal/pipeline"
	"CanslimScout/internal/recorder"
	"CanslimScout/internal/report"
	"CanslimScout/internal/scheduler"
	"CanslimScout/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	topN := flag.Int("top", 0, "number of top stocks to display (default from config: 5)")
	maxAnalyze := flag.Int("max", 0, "maximum number of stocks to analyze (default: all)")
	quick := flag.Bool("quick", false, "quick mode: analyze the first 100 tickers only")
	daemon := flag.Bool("daemon", false, "run on a cron schedule with Telegram delivery")
	flag.Parse()

	// .env is optional; real env vars win either way.
	godotenv.Load()

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
	if *topN <= 0 {
		*topN = cfg.Analysis.TopN
	}

	fetcher := marketdata.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	ttl, _ := cfg.CacheTTL()
	retryDelay, _ := cfg.RetryDelay()
	store := marketdata.NewStore(fetcher,
		marketdata.WithTTL(ttl),
		marketdata.WithRetry(cfg.DataSource.MaxRetries, retryDelay),
		marketdata.WithIndexSymbol(cfg.DataSource.IndexSymbol),
	)

	tickerTimeout, _ := cfg.TickerTimeout()
	pipe := pipeline.New(store, cfg.Sectors,
		pipeline.WithWorkers(cfg.Analysis.Workers),
		pipeline.WithTickerTimeout(tickerTimeout),
	)

	var universeOpts []universe.Option
	if cfg.Universe.SourceURL != "" {
		universeOpts = append(universeOpts, universe.WithSourceURL(cfg.Universe.SourceURL))
	}
	src := universe.NewSP500(universeOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *daemon {
		runDaemon(ctx, cancel, cfg, store, src, pipe)
		return
	}

	runOnce(ctx, cfg, src, pipe, *topN, *maxAnalyze, *quick)
}

// runOnce performs a single analysis and prints the console report.
// Exits non-zero when nothing could be analyzed.
func runOnce(ctx context.Context, cfg *config.Config, src *universe.SP500, pipe *pipeline.Pipeline, topN, maxAnalyze int, quick bool) {
	log.Println("[INFO] fetching ticker universe")
	tickers := src.Tickers(ctx)
	log.Printf("[INFO] found %d tickers", len(tickers))

	if quick && maxAnalyze == 0 {
		maxAnalyze = 100
	}
	if maxAnalyze > 0 && len(tickers) > maxAnalyze {
		tickers = tickers[:maxAnalyze]
	}

	rep := pipe.Run(ctx, tickers, topN)

	if rep.Analyzed == 0 {
		log.Println("[ERROR] no stocks could be analyzed, check your network connection")
		os.Exit(1)
	}

	if err := report.WriteConsole(os.Stdout, rep); err != nil {
		log.Fatalf("[FATAL] write report: %v", err)
	}

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err := tn.SendWithRetry(ctx, report.FormatTelegram(rep), 3); err != nil {
			log.Printf("[ERROR] send telegram report: %v", err)
		}
	}
}

// runDaemon schedules recurring analyses and serves Telegram commands until
// a shutdown signal arrives.
func runDaemon(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, store *marketdata.Store, src *universe.SP500, pipe *pipeline.Pipeline) {
	log.Println("[INFO] CanslimScout daemon starting...")

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Println("[WARN] Telegram not configured, reports will only be recorded")
	}

	var rec recorder.RunRecorder
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

	sched := scheduler.New(ctx, store, src, pipe, tn, rec, cfg.Analysis.TopN)
	if err := sched.Register(cfg.Schedule.AnalysisCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go sched.RunAnalysisNow()
	}

	log.Println("[INFO] CanslimScout is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CanslimScout stopped")
}
