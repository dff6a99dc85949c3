package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/jonathan/talent-matcher/internal/types"
)

// DefaultCandidateLimit caps ListCandidates when no limit is given
const DefaultCandidateLimit = 500

// MatchRun is one persisted engine invocation
type MatchRun struct {
	ID          uuid.UUID           `json:"id"`
	ProjectID   string              `json:"project_id"`
	Weights     matching.Weights    `json:"weights"`
	Options     *types.MatchOptions `json:"options,omitempty"`
	Results     []types.MatchResult `json:"results"`
	ResultCount int                 `json:"result_count"`
	CreatedAt   time.Time           `json:"created_at"`
}

// MatchRunInput holds the fields needed to persist a run
type MatchRunInput struct {
	ProjectID string
	Weights   matching.Weights
	Options   *types.MatchOptions
	Results   []types.MatchResult
}

// MatchRunSummary is a lightweight view of a run for listing
type MatchRunSummary struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   string    `json:"project_id"`
	ResultCount int       `json:"result_count"`
	TopTalentID string    `json:"top_talent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
