package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-matcher/internal/types"
)

// SaveProjectRequirement inserts or replaces a project by ID
func (db *DB) SaveProjectRequirement(ctx context.Context, project *types.ProjectRequirement) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO projects (id, doc)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = $2, updated_at = NOW()`,
		project.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", project.ID, err)
	}
	return nil
}

// GetProjectRequirement retrieves a project by ID. Returns nil, nil when it does not exist.
func (db *DB) GetProjectRequirement(ctx context.Context, id string) (*types.ProjectRequirement, error) {
	var doc []byte
	err := db.pool.QueryRow(ctx, `SELECT doc FROM projects WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}

	var project types.ProjectRequirement
	if err := json.Unmarshal(doc, &project); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &project, nil
}

// DeleteProjectRequirement removes a project. Stored match runs are kept.
func (db *DB) DeleteProjectRequirement(ctx context.Context, id string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}
