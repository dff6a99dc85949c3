package matching

import (
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
)

const day = 24 * time.Hour

// scoreAvailability returns the capacity-weighted fraction (0-1) of the project window
// covered by the candidate's availability windows.
// eligible is false when the candidate is flagged unavailable or no window with
// positive capacity overlaps the project window.
func scoreAvailability(project *types.ProjectRequirement, candidate *types.TalentProfile) (score float64, eligible bool) {
	if !candidate.IsAvailable {
		return 0, false
	}

	projectStart := project.StartDate.Time
	projectEnd := project.EndDate().Time
	projectDays := projectEnd.Sub(projectStart).Hours() / 24
	if projectDays <= 0 {
		return 0, false
	}

	covered := 0.0
	for _, w := range candidate.Availability {
		if w.CapacityPercent <= 0 {
			continue
		}
		// End dates are inclusive
		overlapStart := maxTime(projectStart, w.StartDate.Time)
		overlapEnd := minTime(projectEnd, w.EndDate.Add(day))
		if !overlapEnd.After(overlapStart) {
			continue
		}
		eligible = true
		covered += overlapEnd.Sub(overlapStart).Hours() / 24 * (w.CapacityPercent / 100)
	}

	if !eligible {
		return 0, false
	}
	return clamp(covered/projectDays, 0, 1), true
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
