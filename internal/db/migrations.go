package db

import (
	"context"
	"fmt"
)

// Migration is one forward schema change
type Migration struct {
	Version     int
	Description string
	Up          string
}

// Migrations lists every schema change in apply order
var Migrations = []Migration{
	{
		Version:     1,
		Description: "Create projects table",
		Up: `
			CREATE TABLE IF NOT EXISTS projects (
				id          TEXT PRIMARY KEY,
				doc         JSONB NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		Version:     2,
		Description: "Create talent_profiles table",
		Up: `
			CREATE TABLE IF NOT EXISTS talent_profiles (
				id            TEXT PRIMARY KEY,
				doc           JSONB NOT NULL,
				skill_keys    TEXT[] NOT NULL DEFAULT '{}',
				is_available  BOOLEAN NOT NULL DEFAULT TRUE,
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_talent_profiles_skill_keys ON talent_profiles USING GIN (skill_keys)`,
	},
	{
		Version:     3,
		Description: "Create match_runs table",
		Up: `
			CREATE TABLE IF NOT EXISTS match_runs (
				id            UUID PRIMARY KEY,
				project_id    TEXT NOT NULL,
				weights       JSONB NOT NULL,
				options       JSONB,
				results       JSONB NOT NULL,
				result_count  INTEGER NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_match_runs_project ON match_runs (project_id, created_at DESC)`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations, in version order.
// It returns the versions applied by this call.
func (db *DB) Migrate(ctx context.Context) ([]int, error) {
	if _, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version      INTEGER PRIMARY KEY,
			description  TEXT NOT NULL,
			applied_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var ran []int
	for _, m := range pending(Migrations, applied) {
		tx, err := db.pool.Begin(ctx)
		if err != nil {
			return ran, fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(ctx, m.Up); err != nil {
			_ = tx.Rollback(ctx)
			return ran, fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`,
			m.Version, m.Description,
		); err != nil {
			_ = tx.Rollback(ctx)
			return ran, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return ran, fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		ran = append(ran, m.Version)
	}

	return ran, nil
}

func (db *DB) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// pending returns the migrations absent from applied, preserving list order
func pending(all []Migration, applied map[int]bool) []Migration {
	var out []Migration
	for _, m := range all {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}
