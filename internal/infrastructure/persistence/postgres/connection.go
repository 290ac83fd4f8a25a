// Package postgres implements the PostgreSQL persistence layer for the
// BiteBurst league service. It owns the durable state of the weekly
// competition: user profiles, raw XP events, and the per-week league
// rosters. Everything derived (rankings, zones) is computed at read time
// from these tables.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrMigrationFailed wraps any failure while applying migrations.
	ErrMigrationFailed = errors.New("postgres: migration failed")
)

// Settings tunes the connection pool. Zero values fall back to the
// defaults below.
type Settings struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.MaxConns == 0 {
		s.MaxConns = 10
	}
	if s.MinConns == 0 {
		s.MinConns = 2
	}
	if s.MaxConnLifetime == 0 {
		s.MaxConnLifetime = time.Hour
	}
	if s.MaxConnIdleTime == 0 {
		s.MaxConnIdleTime = 30 * time.Minute
	}
	return s
}

// Connection wraps a pgx pool. Repositories go through it rather than
// holding the pool directly, so transactions and pool tuning stay in one
// place.
type Connection struct {
	pool *pgxpool.Pool
}

// Connect parses a DATABASE_URL style string, applies the pool settings,
// and verifies the database is reachable before returning.
func Connect(ctx context.Context, databaseURL string, settings Settings) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}

	settings = settings.withDefaults()
	poolCfg.MaxConns = settings.MaxConns
	poolCfg.MinConns = settings.MinConns
	poolCfg.MaxConnLifetime = settings.MaxConnLifetime
	poolCfg.MaxConnIdleTime = settings.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return &Connection{pool: pool}, nil
}

// NewConnectionFromURL connects with default pool settings.
func NewConnectionFromURL(ctx context.Context, databaseURL string) (*Connection, error) {
	return Connect(ctx, databaseURL, Settings{})
}

// Close releases the pool. Safe to call more than once.
func (c *Connection) Close() {
	c.pool.Close()
}

// Ping reports whether the database answers.
func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Connection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.pool.Exec(ctx, sql, args...)
}

func (c *Connection) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.pool.Query(ctx, sql, args...)
}

func (c *Connection) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.pool.QueryRow(ctx, sql, args...)
}

// WithTx runs fn inside a read-committed transaction, committing when fn
// returns nil and rolling back otherwise. Panics roll back and re-panic.
func (c *Connection) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

// IsNoRows reports whether err is pgx's no-rows result.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports a unique constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
