package sessionstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopframe/go-shop-auth/internal/errors"
)

// PostgresRepo persists shop sessions in a single table keyed by shop domain.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// EnsureSchema creates the sessions table if it does not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shop_sessions (
  shop text PRIMARY KEY,
  access_token text NOT NULL,
  user_id text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	if err != nil {
		return fmt.Errorf("ensure shop_sessions schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Put(ctx context.Context, shop string, record Record) (string, error) {
	if shop == "" {
		return "", fmt.Errorf("shop is required")
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO shop_sessions (shop, access_token, user_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (shop) DO UPDATE
SET access_token = EXCLUDED.access_token,
    user_id = EXCLUDED.user_id,
    created_at = EXCLUDED.created_at
`, shop, record.AccessToken, record.UserID, record.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("upsert session for %s: %w", shop, err)
	}
	return uuid.New().String(), nil
}

func (r *PostgresRepo) Get(ctx context.Context, shop string) (Record, error) {
	if shop == "" {
		return Record{}, fmt.Errorf("shop is required")
	}

	var record Record
	err := r.pool.QueryRow(ctx, `
SELECT shop, access_token, user_id, created_at FROM shop_sessions WHERE shop = $1
`, shop).Scan(&record.Shop, &record.AccessToken, &record.UserID, &record.CreatedAt)
	if err == pgx.ErrNoRows {
		return Record{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("select session for %s: %w", shop, err)
	}
	return record, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, shop string) error {
	if shop == "" {
		return fmt.Errorf("shop is required")
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM shop_sessions WHERE shop = $1`, shop); err != nil {
		return fmt.Errorf("delete session for %s: %w", shop, err)
	}
	return nil
}
