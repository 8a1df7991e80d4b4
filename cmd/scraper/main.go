package main

import (
	"log"
	"os"

	"BourseWatch/internal/config"
	"BourseWatch/internal/fetcher"
	"BourseWatch/internal/scraper"
	"BourseWatch/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BourseWatch scraper starting...")

	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	var st store.Store
	if os.Getenv("DRY_RUN") == "true" {
		log.Println("[INFO] DRY_RUN enabled, nothing will be persisted")
		st = store.NewNoopStore()
	} else {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] open store: %v", err)
		}
		st = ss
	}
	defer st.Close()

	f := fetcher.NewHTTPFetcher(fetcher.DetailTimeout, cfg.Proxy)
	pipeline := scraper.NewPipeline(f, st, cfg.Source.BaseURL)

	if _, err := pipeline.Run(); err != nil {
		log.Printf("[ERROR] scrape run failed: %v", err)
		os.Exit(1)
	}
	log.Println("[INFO] scraping completed")
}
