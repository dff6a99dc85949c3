package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/talent-matcher/internal/types"
)

// sortResults orders results best first. Talent IDs are unique per call, so the order is total.
func sortResults(results []types.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.ReputationScore != b.ReputationScore {
			return a.ReputationScore > b.ReputationScore
		}
		if a.RelevantYears != b.RelevantYears {
			return a.RelevantYears > b.RelevantYears
		}
		return a.TalentID < b.TalentID
	})
}

// generateNotes creates a brief explanation of the match.
func generateNotes(skills skillResult, availability, rate float64) string {
	var parts []string

	switch {
	case len(skills.matched) == 0:
		parts = append(parts, "No skill matches")
	case skills.requiredRatio >= 0.8:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(skills.matched, ", ")))
	case skills.requiredRatio >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(skills.matched, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(skills.matched, ", ")))
	}

	if len(skills.missingRequired) > 0 {
		parts = append(parts, fmt.Sprintf("Missing required: %s", strings.Join(skills.missingRequired, ", ")))
	}

	switch {
	case availability >= 0.9:
		parts = append(parts, "Fully available")
	case availability >= 0.5:
		parts = append(parts, "Partially available")
	default:
		parts = append(parts, "Limited availability")
	}

	switch {
	case rate >= 1.0:
		parts = append(parts, "Rate within budget")
	case rate >= 0.5:
		parts = append(parts, "Rate slightly outside budget")
	default:
		parts = append(parts, "Rate outside budget")
	}

	return strings.Join(parts, ". ")
}
