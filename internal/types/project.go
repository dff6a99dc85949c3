// Package types provides type definitions for structured data used throughout the talent-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// LocationMode describes where work on a project happens
type LocationMode string

// Location modes. Talent may also state ModeFlexible.
const (
	ModeRemote   LocationMode = "remote"
	ModeHybrid   LocationMode = "hybrid"
	ModeOnsite   LocationMode = "onsite"
	ModeFlexible LocationMode = "flexible"
)

// Urgency levels for a project
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Budget represents the hourly budget range of a project
type Budget struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0"`
	Currency string  `json:"currency,omitempty"`
}

// ProjectRequirement represents the demand side of a match
type ProjectRequirement struct {
	ID                 string             `json:"id" validate:"required"`
	Title              string             `json:"title,omitempty"`
	RequiredSkills     []SkillRequirement `json:"required_skills" validate:"dive"`
	PreferredSkills    []SkillRequirement `json:"preferred_skills" validate:"dive"`
	Budget             Budget             `json:"budget"`
	StartDate          Date               `json:"start_date"`
	DurationWeeks      int                `json:"duration_weeks" validate:"gt=0"`
	LocationMode       LocationMode       `json:"location_mode,omitempty" validate:"omitempty,oneof=remote hybrid onsite"`
	Location           string             `json:"location,omitempty"`
	Urgency            string             `json:"urgency,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	WorkStyle          string             `json:"work_style,omitempty"`
	Industry           string             `json:"industry,omitempty"`
	CompanySize        string             `json:"company_size,omitempty"`
	CommunicationStyle string             `json:"communication_style,omitempty"`
	Languages          []string           `json:"languages,omitempty"`
}

// EndDate returns the exclusive end of the project window
func (p *ProjectRequirement) EndDate() Date {
	return p.StartDate.AddDays(7 * p.DurationWeeks)
}

// Validate validates the ProjectRequirement struct tags.
func (p *ProjectRequirement) Validate() error {
	return validate.Struct(p)
}
