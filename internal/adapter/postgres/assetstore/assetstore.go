package assetstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portfetcher "github.com/alanyang/engn/internal/port/fetcher"
)

var _ portfetcher.Fetcher = (*Store)(nil)

// Store serves asset bytes from the assets table, keyed by source path.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Fetch(ctx context.Context, src string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM assets WHERE src = $1`, src).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", src, portfetcher.ErrNotFound)
		}
		return nil, fmt.Errorf("querying asset %s: %w", src, err)
	}
	return data, nil
}

// Put upserts the bytes stored for src.
func (s *Store) Put(ctx context.Context, src string, data []byte) error {
	query := `
		INSERT INTO assets (src, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (src) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, src, data); err != nil {
		return fmt.Errorf("upserting asset %s: %w", src, err)
	}
	return nil
}
