package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bills-manager/internal/repository"
	"bills-manager/internal/service"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr        string
	DBDriver        string
	DatabaseURL     string
	CORSOrigins     []string
	LogLevel        string
	ShutdownTimeout time.Duration
	DigestAt        string
	DigestEvery     time.Duration
	TelegramToken   string
	TelegramChatID  int64
}

// DigestEnabled reports whether a digest schedule is configured.
func (c Config) DigestEnabled() bool {
	return c.DigestAt != "" || c.DigestEvery > 0
}

// TelegramEnabled reports whether digests should be pushed to Telegram.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads an optional .env file and then the environment, applying defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		HTTPAddr:      get("HTTP_ADDR"),
		DBDriver:      strings.ToLower(get("DB_DRIVER")),
		DatabaseURL:   get("DATABASE_URL"),
		CORSOrigins:   splitList(get("CORS_ORIGINS")),
		LogLevel:      get("LOG_LEVEL"),
		DigestAt:      get("DIGEST_AT"),
		TelegramToken: get("TELEGRAM_TOKEN"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = repository.DriverSQLite
	}
	if cfg.DatabaseURL == "" && cfg.DBDriver == repository.DriverSQLite {
		cfg.DatabaseURL = "bills.db"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.DBDriver {
	case repository.DriverSQLite, repository.DriverPostgres:
	default:
		return cfg, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", repository.DriverSQLite, repository.DriverPostgres, cfg.DBDriver)
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required for %s", cfg.DBDriver)
	}

	cfg.ShutdownTimeout = 10 * time.Second
	if raw := get("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration, got %q", raw)
		}
		cfg.ShutdownTimeout = d
	}

	if cfg.DigestAt != "" {
		if err := service.ValidateDailyTime(cfg.DigestAt); err != nil {
			return cfg, fmt.Errorf("DIGEST_AT: %w", err)
		}
	}
	if raw := get("DIGEST_EVERY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("DIGEST_EVERY must be a duration, got %q", raw)
		}
		if err := service.ValidateInterval(d); err != nil {
			return cfg, fmt.Errorf("DIGEST_EVERY: %w", err)
		}
		if cfg.DigestAt != "" {
			return cfg, errors.New("DIGEST_AT and DIGEST_EVERY are mutually exclusive")
		}
		cfg.DigestEvery = d
	}

	if raw := get("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer, got %q", raw)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
