package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements CartStore using PostgreSQL as the data store. Each cart
// is a single jsonb document keyed by its cart key.
type PgStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPgStore creates a new instance of CartStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool, logger *slog.Logger) *PgStore {
	return &PgStore{
		db:     dbp,
		logger: logger.With("component", "pg_store"),
	}
}

// Load returns the cart stored under key. A missing row or a malformed
// payload reads as an empty cart.
func (s *PgStore) Load(ctx context.Context, key string) ([]LineItem, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT items FROM carts WHERE cart_key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart %q: %w", key, err)
	}
	return decodeItems(raw, s.logger, key), nil
}

// Save replaces the cart stored under key.
func (s *PgStore) Save(ctx context.Context, key string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart %q: %w", key, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO carts (cart_key, items, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (cart_key)
		DO UPDATE SET items = EXCLUDED.items, updated_at = now()`,
		key, raw)
	if err != nil {
		return fmt.Errorf("failed to save cart %q: %w", key, err)
	}
	return nil
}
