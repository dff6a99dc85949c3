// Package types provides type definitions for structured data used throughout the talent-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// AvailabilityWindow represents a contiguous period of candidate capacity.
// EndDate is inclusive.
type AvailabilityWindow struct {
	StartDate       Date    `json:"start_date"`
	EndDate         Date    `json:"end_date"`
	CapacityPercent float64 `json:"capacity_percent" validate:"gte=0,lte=100"`
	Timezone        string  `json:"timezone,omitempty"`
}

// RateExpectation represents a candidate's hourly pricing
type RateExpectation struct {
	HourlyRate    float64 `json:"hourly_rate" validate:"gte=0"`
	MinimumRate   float64 `json:"minimum_rate" validate:"gte=0"`
	PreferredRate float64 `json:"preferred_rate" validate:"gte=0"`
	Currency      string  `json:"currency,omitempty"`
}

// Preferred returns the preferred rate, falling back to the hourly rate
func (r RateExpectation) Preferred() float64 {
	if r.PreferredRate > 0 {
		return r.PreferredRate
	}
	return r.HourlyRate
}

// TalentPreferences holds the soft preferences a candidate has stated
type TalentPreferences struct {
	CompanySizes       []string `json:"company_sizes,omitempty"`
	WorkStyles         []string `json:"work_styles,omitempty"`
	CommunicationStyle string   `json:"communication_style,omitempty"`
	Industries         []string `json:"industries,omitempty"`
}

// TalentProfile represents the supply side of a match
type TalentProfile struct {
	ID               string               `json:"id" validate:"required"`
	Name             string               `json:"name,omitempty"`
	Skills           []CandidateSkill     `json:"skills" validate:"dive"`
	Availability     []AvailabilityWindow `json:"availability" validate:"dive"`
	Rate             RateExpectation      `json:"rate"`
	Location         string               `json:"location,omitempty"`
	RemotePreference LocationMode         `json:"remote_preference,omitempty" validate:"omitempty,oneof=remote hybrid onsite flexible"`
	Languages        []string             `json:"languages,omitempty"`
	Rating           float64              `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount      int                  `json:"review_count" validate:"gte=0"`
	Preferences      TalentPreferences    `json:"preferences"`
	IsAvailable      bool                 `json:"is_available"`
}

// Validate validates the TalentProfile struct tags.
func (t *TalentProfile) Validate() error {
	return validate.Struct(t)
}
