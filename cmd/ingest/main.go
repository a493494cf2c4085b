package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brightlines/interference-tracker/internal/config"
	"github.com/brightlines/interference-tracker/internal/data/db"
	"github.com/brightlines/interference-tracker/internal/geocode"
	"github.com/brightlines/interference-tracker/internal/ingest"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to a YAML config file")
		geoPath  = flag.String("geo", "", "path to the GeoJSON country export")
		postPath = flag.String("post", "", "path to the CMS post export")
	)
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgPath, log)
	if err != nil {
		log.Error("Config load failed", "error", err)
		os.Exit(1)
	}
	if *geoPath != "" {
		cfg.Ingest.GeoPath = *geoPath
	}
	if *postPath != "" {
		cfg.Ingest.PostPath = *postPath
	}

	store, err := db.NewStoreService(cfg.DB, log)
	if err != nil {
		log.Error("Store init failed", "error", err)
		os.Exit(1)
	}

	var geocoder geocode.Resolver = geocode.Disabled{}
	if cfg.Geocode.Enabled {
		geocoder = geocode.NewHTTPResolver(cfg.Geocode.Endpoint, log)
	}

	runner := ingest.NewRunner(ingest.NewDeps(store.DB(), log, geocoder))
	summary, err := runner.Run(context.Background(), ingest.Options{
		GeoPath:  cfg.Ingest.GeoPath,
		PostPath: cfg.Ingest.PostPath,
		SiteBase: cfg.Ingest.SiteBase,
	})
	if err != nil {
		log.Error("Ingest failed", "error", err)
		os.Exit(1)
	}

	for _, src := range summary.Sources {
		fmt.Printf("%s: processed=%d skipped=%d linked=%d warnings=%d\n",
			src.Source, src.Processed, src.Skipped, src.Linked, len(src.Warnings))
		for _, w := range src.Warnings {
			fmt.Printf("  warn: %s\n", w)
		}
	}
}
