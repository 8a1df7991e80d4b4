package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"BourseWatch/internal/cache"
	"BourseWatch/internal/config"
	"BourseWatch/internal/extractor"
	"BourseWatch/internal/fetcher"
	"BourseWatch/internal/model"
	"BourseWatch/internal/notifier"
	"BourseWatch/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BourseWatch bot starting...")

	_ = godotenv.Load()

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
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// Fetch + extract behind the TTL cache
	f := fetcher.NewHTTPFetcher(fetcher.SynthesisTimeout, cfg.Proxy)
	ext := extractor.NewSyntheseExtractor()
	syntheseURL := cfg.SyntheseURL()
	signalCache := cache.New(cfg.CacheTTL(), func() ([]model.AssetSignal, error) {
		rawHTML, err := f.Fetch(syntheseURL)
		if err != nil {
			return nil, err
		}
		return ext.Parse(rawHTML)
	})
	log.Printf("[INFO] watching %s (cache TTL %s)", syntheseURL, cfg.CacheTTL())

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, signalCache, tn, loc)
	if err := sched.RegisterAll(cfg.Schedule.MorningCron, cfg.Schedule.AfternoonCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: push a scan immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] BourseWatch is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] BourseWatch stopped")
}
