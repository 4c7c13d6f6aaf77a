package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bills-manager/internal/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDB opens the database for the given driver and creates the bill table.
func NewDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if dsn == "" {
			dsn = "bills.db"
		}
		file, err := ensureDirForSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if file != "" {
			slog.Debug("Opening SQLite database", "file", file)
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	dbLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Bill{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// sqliteFile extracts the database file from a SQLite DSN. ok is false for
// in-memory databases.
func sqliteFile(dsn string) (path string, ok bool) {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return "", false
	}
	path, _, _ = strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" {
		return "", false
	}
	return filepath.Clean(path), true
}

// ensureDirForSQLite creates the directory holding the SQLite file and returns
// the file path, or "" for an in-memory database.
func ensureDirForSQLite(dsn string) (string, error) {
	path, ok := sqliteFile(dsn)
	if !ok {
		return "", nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create db dir %q: %w", dir, err)
		}
	}
	return path, nil
}
