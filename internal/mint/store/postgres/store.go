// Package postgres persists the mint state as one JSONB document per
// collection instance. Transactions lock the row with SELECT ... FOR UPDATE.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mintgate/internal/mint/models"
	"mintgate/internal/mint/store"
	"mintgate/pkg/platform/sentinel"
)

const Schema = `
CREATE TABLE IF NOT EXISTS mint_state (
	instance   TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	version    BIGINT NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool     *pgxpool.Pool
	instance string
}

// Connect opens a pool for dsn.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool, instance string) *Store {
	return &Store{pool: pool, instance: instance}
}

// Migrate creates the state table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate mint_state: %w", err)
	}
	return nil
}

// Init seeds the instance with initial unless a document already exists.
func (s *Store) Init(ctx context.Context, initial *models.State) error {
	doc, err := store.Encode(initial)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO mint_state (instance, document) VALUES ($1, $2) ON CONFLICT (instance) DO NOTHING`,
		s.instance, doc)
	if err != nil {
		return fmt.Errorf("seed mint state: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*models.State, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM mint_state WHERE instance = $1`, s.instance).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load mint state: %w", err)
	}
	return store.Decode(doc)
}

// Version returns the number of committed writes, for diagnostics.
func (s *Store) Version(ctx context.Context) (int64, error) {
	var v int64
	err := s.pool.QueryRow(ctx,
		`SELECT version FROM mint_state WHERE instance = $1`, s.instance).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load mint state version: %w", err)
	}
	return v, nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(st *models.State) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin mint state tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	err = tx.QueryRow(ctx,
		`SELECT document FROM mint_state WHERE instance = $1 FOR UPDATE`, s.instance).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock mint state: %w", err)
	}

	st, err := store.Decode(doc)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}

	next, err := store.Encode(st)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`UPDATE mint_state SET document = $2, version = version + 1, updated_at = now() WHERE instance = $1`,
		s.instance, next)
	if err != nil {
		return fmt.Errorf("write mint state: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit mint state: %w", err)
	}
	return nil
}
