// Package repository stores reports in PostgreSQL.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the connection pool. Zero fields keep the defaults.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

// DefaultPoolConfig suits a single API instance.
var DefaultPoolConfig = PoolConfig{
	MaxConns:        10,
	MinConns:        2,
	MaxConnIdleTime: 5 * time.Minute,
}

func (p PoolConfig) apply(cfg *pgxpool.Config) {
	d := DefaultPoolConfig
	if p.MaxConns > 0 {
		d.MaxConns = p.MaxConns
	}
	if p.MinConns > 0 {
		d.MinConns = p.MinConns
	}
	if p.MaxConnIdleTime > 0 {
		d.MaxConnIdleTime = p.MaxConnIdleTime
	}
	cfg.MaxConns = d.MaxConns
	cfg.MinConns = min(d.MinConns, d.MaxConns)
	cfg.MaxConnIdleTime = d.MaxConnIdleTime
}

// Repository reads and writes reports.
type Repository struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string, pool PoolConfig) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pool.apply(config)

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: p}, nil
}

// Ping checks database connectivity for the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the pool to the pool-stats collector and the test schema
// helpers. Queries belong on Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
