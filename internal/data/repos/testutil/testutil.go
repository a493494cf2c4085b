package testutil

import (
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/brightlines/interference-tracker/internal/data/db"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a fresh in-memory SQLite store with the full schema (tables,
// indexes, denorm view). Each call gets an isolated database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	// A second pooled connection would see its own empty memory database.
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.Exec(`PRAGMA foreign_keys = ON;`).Error; err != nil {
		tb.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := db.EnsureSchema(gdb); err != nil {
		tb.Fatalf("failed to migrate test schema: %v", err)
	}

	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gdb
}

func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
