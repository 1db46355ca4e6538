// Package postgres opens the database handle and maintains the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema is idempotent so Migrate can run on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS entity_links (
		client_entity_id UUID PRIMARY KEY,
		legal_entity_id  UUID NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS master_records (
		entity_id  UUID        NOT NULL,
		model      TEXT        NOT NULL,
		attrs      JSONB       NOT NULL DEFAULT '{}',
		meta       JSONB       NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (entity_id, model)
	)`,
	`CREATE TABLE IF NOT EXISTS master_data_events (
		id        UUID        PRIMARY KEY,
		entity_id UUID        NOT NULL,
		field_no  INTEGER     NOT NULL,
		value     TEXT        NOT NULL,
		source    TEXT        NOT NULL,
		note      TEXT        NOT NULL DEFAULT '',
		ts        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS master_data_events_entity_field_idx
		ON master_data_events (entity_id, field_no, ts DESC)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
