package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
)

const (
	defaultMaxConns        = 10
	defaultMinConns        = 2
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
)

// DB owns the pgx pool shared by the stores.
type DB struct {
	pool *pgxpool.Pool
}

type Config struct {
	DSN string

	// With PgBouncer, this can be relatively low per replica.
	MaxConns int32
	MinConns int32

	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string
}

// PoolStats is a snapshot of the pool for the metrics registry.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
}

func New(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = orDefault(cfg.MaxConns, defaultMaxConns)
	poolCfg.MinConns = orDefault(cfg.MinConns, defaultMinConns)
	poolCfg.MaxConnLifetime = defaultMaxConnLifetime
	poolCfg.MaxConnIdleTime = defaultMaxConnIdleTime
	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func orDefault(v, fallback int32) int32 {
	if v > 0 {
		return v
	}
	return fallback
}

func (db *DB) Close() {
	db.pool.Close()
}

// Ping checks connectivity; used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Stats() PoolStats {
	s := db.pool.Stat()
	return PoolStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		Acquired: s.AcquiredConns(),
	}
}

// Queries returns queries bound to the pool, outside any transaction.
func (db *DB) Queries() *sqlc.Queries {
	return sqlc.New(db.pool)
}

// WithTx runs fn inside a transaction. A non-nil error from fn rolls back.
//
//	err := db.WithTx(ctx, func(q *sqlc.Queries) error {
//	    s, err := q.GetSuggestionForUpdate(ctx, ...)
//	    if err != nil { return err }
//	    _, err = q.UpsertRelationship(ctx, ...)
//	    return err
//	})
func (db *DB) WithTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	// no-op after commit
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(sqlc.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
