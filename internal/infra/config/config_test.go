package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_ID", "1001")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"LOG_LEVEL", "ENVIRONMENT", "STORAGE_BACKEND", "DATA_DIR", "STORAGE_TIMEOUT", "BACKUP_DIR", "BACKUP_CRON_SPEC", "BACKUP_KEEP", "METRICS_ADDR", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, int64(1001), cfg.AdminTelegramID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, "data/backups", cfg.BackupDir)
	assert.Equal(t, "0 3 * * *", cfg.BackupCronSpec)
	assert.Equal(t, 7, cfg.BackupKeep)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestFromEnvRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("ADMIN_TELEGRAM_ID", "1")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestFromEnvRejectsBadAdminID(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_ID", "admin")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "ADMIN_TELEGRAM_ID")
}

func TestFromEnvPostgresNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/admin?sslmode=disable")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_BACKEND", "s3")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("BACKUP_KEEP", "0")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "BACKUP_KEEP")

	t.Setenv("BACKUP_KEEP", "3")
	t.Setenv("STORAGE_TIMEOUT", "soon")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "STORAGE_TIMEOUT")
}
