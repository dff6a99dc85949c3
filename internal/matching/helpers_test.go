package matching

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
)

// scenarioProject requires React (senior) and TypeScript (mid) and prefers Node.js.
func scenarioProject() *types.ProjectRequirement {
	return &types.ProjectRequirement{
		ID: "proj_001",
		RequiredSkills: []types.SkillRequirement{
			{Name: "React", Level: types.LevelSenior, Weight: 10, IsRequired: true},
			{Name: "TypeScript", Level: types.LevelMid, Weight: 8, IsRequired: true},
		},
		PreferredSkills: []types.SkillRequirement{
			{Name: "Node.js", Level: types.LevelMid, Weight: 5},
		},
		Budget:        types.Budget{Min: 50, Max: 100, Currency: "USD"},
		StartDate:     types.NewDate(2024, time.January, 1),
		DurationWeeks: 4,
		LocationMode:  types.ModeRemote,
	}
}

func fullYear() []types.AvailabilityWindow {
	return []types.AvailabilityWindow{{
		StartDate:       types.NewDate(2024, time.January, 1),
		EndDate:         types.NewDate(2024, time.December, 31),
		CapacityPercent: 100,
		Timezone:        "UTC",
	}}
}

func skill(name string, level types.ProficiencyLevel, years float64) types.CandidateSkill {
	return types.CandidateSkill{Name: name, Level: level, Years: years}
}

// talent builds an available remote candidate whose rate fits the scenario budget.
func talent(id string, skills ...types.CandidateSkill) types.TalentProfile {
	return types.TalentProfile{
		ID:               id,
		Skills:           skills,
		Availability:     fullYear(),
		Rate:             types.RateExpectation{HourlyRate: 80, MinimumRate: 60, PreferredRate: 80, Currency: "USD"},
		RemotePreference: types.ModeRemote,
		Rating:           4.5,
		ReviewCount:      20,
		IsAvailable:      true,
	}
}

// randomPool generates a reproducible, varied candidate pool.
func randomPool(n int, seed int64) []types.TalentProfile {
	rng := rand.New(rand.NewSource(seed))
	names := []string{"React", "TypeScript", "Node.js", "Go", "Python", "JavaScript"}
	levels := []types.ProficiencyLevel{types.LevelJunior, types.LevelMid, types.LevelSenior, types.LevelLead}
	modes := []types.LocationMode{types.ModeRemote, types.ModeHybrid, types.ModeOnsite, types.ModeFlexible, ""}

	pool := make([]types.TalentProfile, 0, n)
	for i := 0; i < n; i++ {
		var skills []types.CandidateSkill
		for _, name := range names {
			if rng.Intn(2) == 0 {
				skills = append(skills, skill(name, levels[rng.Intn(len(levels))], float64(rng.Intn(10))))
			}
		}

		start := types.NewDate(2023, time.December, 1).AddDays(rng.Intn(60))
		var windows []types.AvailabilityWindow
		if rng.Intn(5) != 0 {
			windows = append(windows, types.AvailabilityWindow{
				StartDate:       start,
				EndDate:         start.AddDays(rng.Intn(90)),
				CapacityPercent: float64(rng.Intn(101)),
			})
		}

		preferred := float64(20 + rng.Intn(150))
		pool = append(pool, types.TalentProfile{
			ID:               fmt.Sprintf("talent_%03d", i),
			Skills:           skills,
			Availability:     windows,
			Rate:             types.RateExpectation{MinimumRate: preferred * 0.8, PreferredRate: preferred, Currency: "USD"},
			RemotePreference: modes[rng.Intn(len(modes))],
			Rating:           float64(rng.Intn(51)) / 10,
			ReviewCount:      rng.Intn(100),
			IsAvailable:      rng.Intn(6) != 0,
		})
	}
	return pool
}
