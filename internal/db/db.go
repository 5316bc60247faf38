// Package db provides PostgreSQL access for accounts, the settings document,
// and client error logs.
package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migration is a named, idempotent schema change.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema changes applied at startup, in order.
var Migrations = []Migration{
	{
		Name: "create_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			picture       TEXT NOT NULL DEFAULT '',
			password_hash TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "create_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "create_client_logs",
		SQL: `CREATE TABLE IF NOT EXISTS client_logs (
			id         UUID PRIMARY KEY,
			message    TEXT NOT NULL,
			stack      TEXT NOT NULL DEFAULT '',
			url        TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			context    JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "index_client_logs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_client_logs_created_at ON client_logs (created_at DESC)`,
	},
}

// Migrate applies every migration. Each statement is idempotent, so running
// it against an up-to-date database is a no-op.
func (db *DB) Migrate(ctx context.Context) error {
	log.Printf("[db] Running %d migrations", len(Migrations))
	for _, m := range Migrations {
		if _, err := db.pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		log.Printf("[db] Migration completed: %s", m.Name)
	}
	return nil
}
