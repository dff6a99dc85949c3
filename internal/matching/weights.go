package matching

import (
	"fmt"
	"math"
)

// weightSumTolerance is the allowed float error when checking that a blend sums to 1
const weightSumTolerance = 1e-6

// Weights holds the tunable ranking policy. Each blend group must sum to 1.
type Weights struct {
	// Aggregate blend of the three sub-scores
	Skill            float64 `json:"skill" mapstructure:"skill"`
	AvailabilityRate float64 `json:"availability_rate" mapstructure:"availability_rate"`
	Contextual       float64 `json:"contextual" mapstructure:"contextual"`

	// Mix of required vs preferred skills inside the skill score
	RequiredSkillShare  float64 `json:"required_skill_share" mapstructure:"required_skill_share"`
	PreferredSkillShare float64 `json:"preferred_skill_share" mapstructure:"preferred_skill_share"`

	// Mix of window coverage vs budget fit inside the availability/rate score
	AvailabilityShare float64 `json:"availability_share" mapstructure:"availability_share"`
	RateShare         float64 `json:"rate_share" mapstructure:"rate_share"`

	// ReputationDamping is the review count at which rating confidence reaches 50%
	ReputationDamping float64 `json:"reputation_damping" mapstructure:"reputation_damping"`
}

// DefaultWeights returns the default ranking policy
func DefaultWeights() Weights {
	return Weights{
		Skill:               0.6,
		AvailabilityRate:    0.3,
		Contextual:          0.1,
		RequiredSkillShare:  0.7,
		PreferredSkillShare: 0.3,
		AvailabilityShare:   0.5,
		RateShare:           0.5,
		ReputationDamping:   5,
	}
}

// IsZero reports whether no weight has been set
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate checks that every weight is non-negative and each blend sums to 1.
func (w Weights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"weights.skill", w.Skill},
		{"weights.availability_rate", w.AvailabilityRate},
		{"weights.contextual", w.Contextual},
		{"weights.required_skill_share", w.RequiredSkillShare},
		{"weights.preferred_skill_share", w.PreferredSkillShare},
		{"weights.availability_share", w.AvailabilityShare},
		{"weights.rate_share", w.RateShare},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Message: "must be a non-negative number"}
		}
	}

	if err := checkSum("weights", w.Skill+w.AvailabilityRate+w.Contextual); err != nil {
		return err
	}
	if err := checkSum("weights.required_skill_share", w.RequiredSkillShare+w.PreferredSkillShare); err != nil {
		return err
	}
	if err := checkSum("weights.availability_share", w.AvailabilityShare+w.RateShare); err != nil {
		return err
	}

	if !(w.ReputationDamping > 0) || math.IsInf(w.ReputationDamping, 0) {
		return &ValidationError{Field: "weights.reputation_damping", Message: "must be positive"}
	}

	return nil
}

func checkSum(field string, sum float64) error {
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ValidationError{Field: field, Message: fmt.Sprintf("blend must sum to 1, got %.4f", sum)}
	}
	return nil
}
