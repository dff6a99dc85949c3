// Package types provides type definitions for structured data used throughout the talent-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MatchOptions holds caller-supplied tuning for a single match call
type MatchOptions struct {
	// MinScore drops results whose total score is below it (nil = no threshold)
	MinScore *float64 `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	// Limit truncates the ranked list (0 = unlimited)
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

// Validate validates the MatchOptions struct tags.
func (o *MatchOptions) Validate() error {
	return validate.Struct(o)
}

// MatchResult is the output of one scoring pass for one candidate
type MatchResult struct {
	TalentID              string   `json:"talent_id"`
	TotalScore            float64  `json:"total_score"`
	SkillScore            float64  `json:"skill_score"`
	AvailabilityRateScore float64  `json:"availability_rate_score"`
	ContextualScore       float64  `json:"contextual_score"`
	AvailabilityScore     float64  `json:"availability_score"` // 0-1 window coverage
	RateScore             float64  `json:"rate_score"`         // 0-1 budget fit
	ReputationScore       float64  `json:"reputation_score"`   // 0-1 damped rating
	RelevantYears         float64  `json:"relevant_years"`
	MatchedSkills         []string `json:"matched_skills"`
	MissingRequiredSkills []string `json:"missing_required_skills,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}

// MatchResults is the envelope written by the CLI and HTTP API
type MatchResults struct {
	ProjectID string        `json:"project_id"`
	Results   []MatchResult `json:"results"`
}
