package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	// Snapshot writes are serialized per repository, so a small pool is enough.
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

const createSnapshotTableSQL = `CREATE TABLE IF NOT EXISTS record_snapshots (
	kind       TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPostgresConnection opens a pool, pings it within timeout and makes
// sure the snapshot table exists.
func NewPostgresConnection(dataSourceName string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err = EnsureSnapshotSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSnapshotSchema creates the record_snapshots table when missing.
func EnsureSnapshotSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createSnapshotTableSQL); err != nil {
		return fmt.Errorf("failed to create record_snapshots table: %w", err)
	}
	return nil
}
