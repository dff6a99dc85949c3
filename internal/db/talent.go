package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/talent-matcher/internal/parsing"
	"github.com/jonathan/talent-matcher/internal/types"
)

// SaveTalentProfile inserts or replaces a talent profile by ID.
// Normalized skill keys are stored alongside the document for pool selection.
func (db *DB) SaveTalentProfile(ctx context.Context, profile *types.TalentProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal talent profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO talent_profiles (id, doc, skill_keys, is_available)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET doc = $2, skill_keys = $3, is_available = $4, updated_at = NOW()`,
		profile.ID, doc, TalentSkillKeys(profile), profile.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("failed to save talent profile %s: %w", profile.ID, err)
	}
	return nil
}

// ListCandidates returns available profiles holding at least one of skillKeys, ordered by ID.
// An empty skillKeys returns every available profile. limit <= 0 uses DefaultCandidateLimit.
func (db *DB) ListCandidates(ctx context.Context, skillKeys []string, limit int) ([]types.TalentProfile, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	query := `SELECT doc FROM talent_profiles WHERE is_available`
	args := []any{}
	argNum := 1

	if len(skillKeys) > 0 {
		query += fmt.Sprintf(" AND skill_keys && $%d", argNum)
		args = append(args, skillKeys)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var profiles []types.TalentProfile
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan talent profile: %w", err)
		}
		var profile types.TalentProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode talent profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return profiles, nil
}

// TalentSkillKeys returns the sorted, deduplicated normalized keys of a profile's skills
func TalentSkillKeys(profile *types.TalentProfile) []string {
	names := make([]string, 0, len(profile.Skills))
	for _, s := range profile.Skills {
		names = append(names, s.Name)
	}
	return uniqueKeys(names)
}

// ProjectSkillKeys returns the sorted, deduplicated normalized keys of every skill a project names.
// Preferred skills are included so the pool covers candidates the engine may rank.
func ProjectSkillKeys(project *types.ProjectRequirement) []string {
	names := make([]string, 0, len(project.RequiredSkills)+len(project.PreferredSkills))
	for _, s := range project.RequiredSkills {
		names = append(names, s.Name)
	}
	for _, s := range project.PreferredSkills {
		names = append(names, s.Name)
	}
	return uniqueKeys(names)
}

func uniqueKeys(names []string) []string {
	seen := make(map[string]bool, len(names))
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := parsing.SkillKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
