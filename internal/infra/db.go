// README: Postgres connection pool and a document backend storing one row per JSON document.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, dsn)
}

// PostgresBackend keeps documents in a json (not jsonb) column so key order,
// which drives first-match lookups, survives a round trip.
type PostgresBackend struct {
	db *pgxpool.Pool
}

func NewPostgresBackend(db *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	_, err := b.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            name       TEXT PRIMARY KEY,
            body       JSON NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`)
	if err != nil {
		return fmt.Errorf("%w: ensure documents table: %v", ErrStoreIO, err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.db.QueryRow(ctx, `SELECT body::text FROM documents WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreIO, name, err)
	}
	return []byte(body), nil
}

// Write upserts the whole document in a single statement.
func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.db.Exec(ctx, `
        INSERT INTO documents (name, body, updated_at)
        VALUES ($1, $2::json, NOW())
        ON CONFLICT (name) DO UPDATE SET
            body = EXCLUDED.body,
            updated_at = EXCLUDED.updated_at`,
		name, string(data),
	)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStoreIO, name, err)
	}
	return nil
}
