package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/talent-matcher/internal/types"
)

// SaveMatchRun stores the ranked results of an engine call and returns the new run ID
func (db *DB) SaveMatchRun(ctx context.Context, input *MatchRunInput) (uuid.UUID, error) {
	weightsJSON, err := json.Marshal(input.Weights)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal weights: %w", err)
	}
	var optionsJSON []byte
	if input.Options != nil {
		if optionsJSON, err = json.Marshal(input.Options); err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal options: %w", err)
		}
	}
	results := input.Results
	if results == nil {
		results = []types.MatchResult{}
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal results: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO match_runs (id, project_id, weights, options, results, result_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, input.ProjectID, weightsJSON, optionsJSON, resultsJSON, len(input.Results),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save match run: %w", err)
	}
	return id, nil
}

// GetMatchRun retrieves a run by ID. Returns nil, nil when it does not exist.
func (db *DB) GetMatchRun(ctx context.Context, id uuid.UUID) (*MatchRun, error) {
	var run MatchRun
	var weightsJSON, optionsJSON, resultsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, weights, options, results, result_count, created_at
		 FROM match_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.ProjectID, &weightsJSON, &optionsJSON, &resultsJSON, &run.ResultCount, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match run: %w", err)
	}

	if err := json.Unmarshal(weightsJSON, &run.Weights); err != nil {
		return nil, fmt.Errorf("failed to decode run weights: %w", err)
	}
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &run.Options); err != nil {
			return nil, fmt.Errorf("failed to decode run options: %w", err)
		}
	}
	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		return nil, fmt.Errorf("failed to decode run results: %w", err)
	}

	return &run, nil
}

// ListMatchRuns retrieves the most recent runs for a project
func (db *DB) ListMatchRuns(ctx context.Context, projectID string, limit int) ([]MatchRunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, result_count, COALESCE(results->0->>'talent_id', ''), created_at
		 FROM match_runs WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		projectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match runs: %w", err)
	}
	defer rows.Close()

	var runs []MatchRunSummary
	for rows.Next() {
		var s MatchRunSummary
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.ResultCount, &s.TopTalentID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match run: %w", err)
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}
