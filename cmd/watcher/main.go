package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockwatch/internal/api"
	"stockwatch/internal/collector"
	"stockwatch/internal/config"
	"stockwatch/internal/notifier"
	"stockwatch/internal/recorder"
	"stockwatch/internal/watcher"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] stockwatch starting...")

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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s, symbol: %s", fetcher.Name(), cfg.DataSource.Symbol)

	// Init recorder
	var rec recorder.Recorder
	switch cfg.Database.Driver {
	case "sqlite":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	case "postgres":
		pr, err := recorder.NewPostgresRecorder(cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = pr
			defer pr.Close()
		}
	default:
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init watcher
	w := watcher.New(ctx, fetcher, cfg.DataSource.Symbol, rec, tn)
	if cfg.MarketHours.Enabled {
		w.Calendar = watcher.NewMarketCalendar(cfg.MarketHours.MIC)
		log.Printf("[INFO] market hours gating enabled (MIC: %s)", cfg.MarketHours.MIC)
	}

	// Init API server
	if cfg.Server.Enabled {
		srv := api.NewServer(cfg.Server.Host, cfg.Server.Port, w)
		w.Broadcaster = srv
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("[ERROR] api server stopped: %v", err)
			}
		}()
	}

	if err := w.Register(cfg.Schedule.PollCron, cfg.Schedule.SummaryCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	w.Start()
	defer w.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, w.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: poll immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, polling now")
		go w.RunPollNow()
	}

	log.Println("[INFO] stockwatch is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] stockwatch stopped")
}
