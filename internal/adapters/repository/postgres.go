package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS blobs (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps blobs in a postgres table through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	opts sqlOptions
}

// OpenPostgres connects to url, retrying until the connect timeout runs
// out, and creates the blobs table when missing.
func OpenPostgres(ctx context.Context, url string, opts ...Option) (*PostgresStore, error) {
	o := defaultSQLOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	cfg.MaxConns = o.maxConns

	pool, err := connectWithRetry(ctx, cfg, o.connectTimeout)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &PostgresStore{pool: pool, opts: o}, nil
}

func connectWithRetry(ctx context.Context, cfg *pgxpool.Config, timeout time.Duration) (*pgxpool.Pool, error) {
	deadline := time.Now().Add(timeout)
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		pool, err := pgxpool.NewWithConfig(attemptCtx, cfg)
		if err == nil {
			if err = pool.Ping(attemptCtx); err == nil {
				cancel()
				return pool, nil
			}
			pool.Close()
		}
		cancel()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect postgres: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
}

// Get implements BlobStore.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM blobs WHERE key = $1`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return blob, true, nil
}

// Put implements BlobStore.
func (s *PostgresStore) Put(ctx context.Context, key string, blob []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, blob, s.opts.now())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close implements BlobStore.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
