package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the local tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS animals (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			personality TEXT NOT NULL DEFAULT '',
			garden_zone TEXT NOT NULL,
			experience_points INTEGER NOT NULL DEFAULT 0,
			growth_tier INTEGER NOT NULL DEFAULT 1,
			affection_level INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(owner_id, type)
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			animal_id TEXT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			garden_zone TEXT NOT NULL,
			experience_reward INTEGER NOT NULL DEFAULT 10,
			created_at DATETIME NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			deleted_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS mood_records (
			owner_id TEXT NOT NULL,
			date TEXT NOT NULL,
			weather_mood TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY(owner_id, date)
		);`,
		`CREATE TABLE IF NOT EXISTS chat_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			animal_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_animal ON tasks(animal_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_animal ON chat_history(animal_id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var remoteSchema = []string{
	`CREATE TABLE IF NOT EXISTS animals (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		personality TEXT NOT NULL DEFAULT '',
		garden_zone TEXT NOT NULL,
		experience_points INTEGER NOT NULL DEFAULT 0 CHECK (experience_points >= 0),
		growth_tier INTEGER NOT NULL DEFAULT 1,
		affection_level INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (owner_id, type)
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		animal_id TEXT NULL REFERENCES animals(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		garden_zone TEXT NOT NULL,
		experience_reward INTEGER NOT NULL DEFAULT 10 CHECK (experience_reward > 0),
		created_at TIMESTAMPTZ NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT false,
		completed_at TIMESTAMPTZ,
		is_deleted BOOLEAN NOT NULL DEFAULT false,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS mood_records (
		owner_id TEXT NOT NULL,
		date TEXT NOT NULL,
		weather_mood TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (owner_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		animal_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS api_config (
		owner_id TEXT PRIMARY KEY,
		api_url TEXT NOT NULL,
		api_key TEXT NOT NULL,
		model_name TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_history_animal ON chat_history(animal_id, seq)`,
}

// ensureRemoteSchema creates the remote tables when missing. Concurrent
// creators may race on the catalog; a duplicate error means the other won.
func ensureRemoteSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range remoteSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil && !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("remote schema: %w", err)
		}
	}
	return nil
}
