package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"teaching_admin/internal/infra/storage"
)

// pq error code for undefined_table.
const pqUndefinedTable = "42P01"

// PostgresSnapshotStore keeps each record kind's snapshot in one row of
// record_snapshots, replaced wholesale on every write.
type PostgresSnapshotStore struct {
	db      *sql.DB
	kind    string
	timeout time.Duration
}

func NewPostgresSnapshotStore(db *sql.DB, kind string, timeout time.Duration) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db, kind: kind, timeout: timeout}
}

func (s *PostgresSnapshotStore) Location() string {
	return "postgres:record_snapshots/" + s.kind
}

func (s *PostgresSnapshotStore) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `SELECT payload FROM record_snapshots WHERE kind = $1`
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, s.kind).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUndefinedTable(err) {
			return nil, storage.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("error reading %s snapshot: %w", s.kind, err)
	}
	return payload, nil
}

func (s *PostgresSnapshotStore) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `INSERT INTO record_snapshots (kind, payload, updated_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (kind) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, s.kind, data); err != nil {
		return fmt.Errorf("error writing %s snapshot: %w", s.kind, err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable
}
