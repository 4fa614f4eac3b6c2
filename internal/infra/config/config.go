package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	AdminTelegramID int64
	LogLevel        string
	Environment     string

	StorageBackend string // "file" or "postgres"
	DataDir        string
	DatabaseURL    string
	StorageTimeout time.Duration

	BackupDir      string
	BackupCronSpec string
	BackupKeep     int

	MetricsAddr string // empty disables the metrics endpoint
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	cfg.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile))
	switch cfg.StorageBackend {
	case BackendFile:
	case BackendPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set (required for STORAGE_BACKEND=postgres)")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: want %q or %q", cfg.StorageBackend, BackendFile, BackendPostgres)
	}
	cfg.DataDir = getEnv("DATA_DIR", "data")

	cfg.StorageTimeout, err = time.ParseDuration(getEnv("STORAGE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_TIMEOUT: %w", err)
	}
	if cfg.StorageTimeout <= 0 {
		return nil, fmt.Errorf("invalid STORAGE_TIMEOUT: must be positive")
	}

	cfg.BackupDir = getEnv("BACKUP_DIR", "data/backups")
	cfg.BackupCronSpec = getEnv("BACKUP_CRON_SPEC", "0 3 * * *") // Default: 3:00 AM daily
	cfg.BackupKeep, err = strconv.Atoi(getEnv("BACKUP_KEEP", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_KEEP: %w", err)
	}
	if cfg.BackupKeep < 1 {
		return nil, fmt.Errorf("invalid BACKUP_KEEP: must be at least 1")
	}

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
