package sqlstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		cost_price REAL NOT NULL DEFAULT 0,
		selling_price REAL NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		daily_sales REAL NOT NULL DEFAULT 0,
		lead_time INTEGER NOT NULL DEFAULT 1,
		safety_stock INTEGER NOT NULL DEFAULT 0,
		alert_threshold INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		week_start DATE NOT NULL UNIQUE,
		revenue REAL NOT NULL DEFAULT 0,
		ad_spend REAL NOT NULL DEFAULT 0,
		profit REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS competitor_observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		competitor_name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		checked_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_competitor_observations_product ON competitor_observations (product_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		cost_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		selling_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		daily_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
		lead_time INTEGER NOT NULL DEFAULT 1,
		safety_stock INTEGER NOT NULL DEFAULT 0,
		alert_threshold INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_records (
		id BIGSERIAL PRIMARY KEY,
		week_start DATE NOT NULL UNIQUE,
		revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
		ad_spend DOUBLE PRECISION NOT NULL DEFAULT 0,
		profit DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS competitor_observations (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		competitor_name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		checked_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_competitor_observations_product ON competitor_observations (product_id)`,
}

// Migrate creates the tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := postgresSchema
	if db.isSQLite() {
		stmts = sqliteSchema
	}

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}

	log.Info().Str("driver", db.driver).Int("statements", len(stmts)).Msg("schema migrated")
	return nil
}
