package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/brightlines/interference-tracker/internal/config"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

type StoreService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreService(cfg config.DBConfig, logg *logger.Logger) (*StoreService, error) {
	serviceLog := logg.With("service", "StoreService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dial gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver selected but no DSN configured")
		}
		dial = postgres.Open(cfg.DSN)
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "data/incidents.sqlite"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory %s: %w", dir, err)
			}
		}
		dial = sqlite.Open(path + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if gdb.Dialector.Name() == "sqlite" {
		if err := gdb.Exec(`PRAGMA foreign_keys = ON;`).Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	return &StoreService{db: gdb, log: serviceLog}, nil
}

func (s *StoreService) DB() *gorm.DB { return s.db }
