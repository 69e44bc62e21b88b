package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/unihub/unidrop/internal/config"
)

// Open connects to the configured relational database. Postgres is retried
// a few times to let the container start.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.Driver {
	case "sqlite", "":
		slog.Info("connecting to database", "driver", "sqlite", "path", cfg.Path)
		return OpenSQLite(cfg.Path, gcfg)
	case "postgres":
		slog.Info("connecting to database", "driver", "postgres",
			"host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBName, "user", cfg.User)
		var db *gorm.DB
		var err error
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
			if err == nil {
				return db, nil
			}
			slog.Warn("database connection attempt failed", "attempt", i+1, "err", err)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

// OpenSQLite opens path. In-memory databases are pinned to one connection
// so every query sees the same data.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if path == ":memory:" || isSharedMemory(path) {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func isSharedMemory(path string) bool {
	return strings.HasPrefix(path, "file:") && strings.Contains(path, "mode=memory")
}
