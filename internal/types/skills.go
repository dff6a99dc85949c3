// Package types provides type definitions for structured data used throughout the talent-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ProficiencyLevel is an ordinal skill level: junior < mid < senior < lead
type ProficiencyLevel string

// Canonical proficiency levels
const (
	LevelJunior ProficiencyLevel = "junior"
	LevelMid    ProficiencyLevel = "mid"
	LevelSenior ProficiencyLevel = "senior"
	LevelLead   ProficiencyLevel = "lead"
)

// levelRank maps level names (and common synonyms) to their ordinal rank
var levelRank = map[string]int{
	"junior":       1,
	"beginner":     1,
	"mid":          2,
	"intermediate": 2,
	"senior":       3,
	"advanced":     3,
	"lead":         4,
	"expert":       4,
	"principal":    4,
}

// Rank returns the ordinal rank of the level (1-4), or 0 if the level is unknown.
func (l ProficiencyLevel) Rank() int {
	return levelRank[strings.ToLower(strings.TrimSpace(string(l)))]
}

// Valid reports whether the level is one of the defined ranks
func (l ProficiencyLevel) Valid() bool {
	return l.Rank() > 0
}

// Canonical returns the canonical level name for the rank ("" if unknown)
func (l ProficiencyLevel) Canonical() ProficiencyLevel {
	switch l.Rank() {
	case 1:
		return LevelJunior
	case 2:
		return LevelMid
	case 3:
		return LevelSenior
	case 4:
		return LevelLead
	default:
		return ""
	}
}

// SkillRequirement represents a skill demand on a project
type SkillRequirement struct {
	Name       string           `json:"name" validate:"required,nonblank"`
	Level      ProficiencyLevel `json:"level" validate:"proficiency"`
	Weight     float64          `json:"weight" validate:"gte=0"`
	IsRequired bool             `json:"is_required"`
}

// CandidateSkill represents a skill a candidate possesses
type CandidateSkill struct {
	Name     string           `json:"name" validate:"required,nonblank"`
	Level    ProficiencyLevel `json:"level" validate:"proficiency"`
	Years    float64          `json:"years" validate:"gte=0"`
	Category string           `json:"category,omitempty"`
}
