package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const schemaQuery = `CREATE TABLE IF NOT EXISTS dashboard_preferences (
	key TEXT PRIMARY KEY,
	value JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresBackend stores preferences in the dashboard_preferences table.
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend constructs the backend. Call EnsureSchema once before use.
func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the preferences table when missing.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schemaQuery); err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM dashboard_preferences WHERE key = $1`
	var raw []byte
	if err := b.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return raw, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO dashboard_preferences (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at`
	if _, err := b.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert preference %s: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM dashboard_preferences WHERE key = $1`
	if _, err := b.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}
