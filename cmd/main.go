package main

import (
	"fmt"
	"os"

	"github.com/brightlines/interference-tracker/internal/config"
	"github.com/brightlines/interference-tracker/internal/data/db"
	repos "github.com/brightlines/interference-tracker/internal/data/repos/incidents"
	"github.com/brightlines/interference-tracker/internal/http/handlers"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
	"github.com/brightlines/interference-tracker/internal/server"
	"github.com/brightlines/interference-tracker/internal/utils"
)

func main() {
	// Logger
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

	// Config
	log.Info("Loading configuration from main...")
	cfgPath := utils.GetEnv("CONFIG_PATH", "", log)
	cfg, err := config.Load(cfgPath, log)
	if err != nil {
		log.Error("Config load failed", "error", err)
		os.Exit(1)
	}

	// Store
	store, err := db.NewStoreService(cfg.DB, log)
	if err != nil {
		log.Error("Store init failed", "error", err)
		os.Exit(1)
	}
	if err = store.EnsureSchema(); err != nil {
		log.Error("Schema migration failed", "error", err)
		os.Exit(1)
	}
	gdb := store.DB()

	// Repos
	log.Info("Setting up repos from main...")
	incidentRepo := repos.NewIncidentRepo(gdb, log)
	countryRepo := repos.NewCountryRepo(gdb, log)
	actorRepo := repos.NewActorRepo(gdb, log)
	toolRepo := repos.NewToolRepo(gdb, log)
	sourceRepo := repos.NewSourceRepo(gdb, log)
	linkRepo := repos.NewLinkRepo(gdb, log)
	viewRepo := repos.NewViewRepo(gdb, log)
	runRepo := repos.NewRunRepo(gdb, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	configHandler := handlers.NewConfigHandler()
	incidentHandler := handlers.NewIncidentHandler(log, viewRepo, runRepo)
	adminHandler := handlers.NewAdminHandler(log, gdb, incidentRepo, countryRepo, actorRepo, toolRepo, sourceRepo, linkRepo)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:    cfg.Server.AllowOrigins,
		HealthHandler:   healthHandler,
		ConfigHandler:   configHandler,
		IncidentHandler: incidentHandler,
		AdminHandler:    adminHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
