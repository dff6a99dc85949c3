package matching

import (
	"strings"

	"github.com/jonathan/talent-matcher/internal/types"
)

// scoreRate compares a candidate's rate expectation against the project budget (0-1).
// Mismatches decay linearly; they never exclude a candidate.
func scoreRate(budget types.Budget, rate types.RateExpectation) float64 {
	preferred := rate.Preferred()
	minimum := rate.MinimumRate
	if minimum == 0 || minimum > preferred {
		minimum = preferred
	}

	// No budget or no stated rate: nothing to compare
	if budget.Max == 0 || preferred == 0 {
		return 1.0
	}

	// Rates are compared without conversion
	if budget.Currency != "" && rate.Currency != "" && !strings.EqualFold(budget.Currency, rate.Currency) {
		return 0.0
	}

	switch {
	case preferred >= budget.Min && preferred <= budget.Max:
		return 1.0
	case minimum > budget.Max:
		return clamp(1-(minimum-budget.Max)/budget.Max, 0, 1)
	case preferred > budget.Max:
		// Negotiable: the candidate would accept a rate inside the budget
		return clamp(1-0.5*(preferred-budget.Max)/(preferred-minimum), 0.5, 1)
	default:
		// preferred < budget.Min, and budget.Min > 0 here
		return clamp(1-(budget.Min-preferred)/budget.Min, 0, 1)
	}
}

// availabilityRateScore blends window coverage and budget fit into a 0-100 score
func availabilityRateScore(availability, rate float64, w Weights) float64 {
	return clamp((w.AvailabilityShare*availability+w.RateShare*rate)*100, 0, 100)
}
