package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultDocumentsTable is used when no table name is configured.
const DefaultDocumentsTable = "documents"

// PostgresSlotStore keeps slots as rows of one table, keyed by slot name.
type PostgresSlotStore struct {
	db    *sqlx.DB
	table string
}

// NewPostgresSlotStore wraps db. An empty table selects DefaultDocumentsTable.
func NewPostgresSlotStore(db *sqlx.DB, table string) *PostgresSlotStore {
	if table == "" {
		table = DefaultDocumentsTable
	}
	return &PostgresSlotStore{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the slot table when missing.
func (s *PostgresSlotStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
	slot TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Read fetches the payload row for slot.
func (s *PostgresSlotStore) Read(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	if err := s.db.GetContext(ctx, &payload, `SELECT payload FROM `+s.table+` WHERE slot = $1`, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("select document %s: %w", slot, err)
	}
	return payload, nil
}

// Write upserts the payload row for slot.
func (s *PostgresSlotStore) Write(ctx context.Context, slot string, payload []byte) error {
	query := `INSERT INTO ` + s.table + ` (slot, payload, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, slot, payload); err != nil {
		return fmt.Errorf("upsert document %s: %w", slot, err)
	}
	return nil
}

// Clear deletes the row for slot.
func (s *PostgresSlotStore) Clear(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("delete document %s: %w", slot, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresSlotStore) Close() error {
	return s.db.Close()
}
