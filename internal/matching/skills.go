package matching

import (
	"github.com/jonathan/talent-matcher/internal/parsing"
	"github.com/jonathan/talent-matcher/internal/types"
)

// skillDemands is the normalized, deduplicated skill demand of one project.
// It is built once per call and shared read-only by every scoring goroutine.
type skillDemands struct {
	required  []demand
	preferred []demand
}

type demand struct {
	key string
	req types.SkillRequirement
}

// prepareDemands merges required and preferred skill lists into one normalized demand set.
// Anything listed under required skills, or flagged is_required, counts as required.
func prepareDemands(project *types.ProjectRequirement) skillDemands {
	all := make([]types.SkillRequirement, 0, len(project.RequiredSkills)+len(project.PreferredSkills))
	for _, req := range project.RequiredSkills {
		req.IsRequired = true
		all = append(all, req)
	}
	all = append(all, project.PreferredSkills...)

	var d skillDemands
	for _, req := range parsing.NormalizeRequirements(all) {
		entry := demand{key: parsing.SkillKey(req.Name), req: req}
		if req.IsRequired {
			d.required = append(d.required, entry)
		} else {
			d.preferred = append(d.preferred, entry)
		}
	}
	return d
}

// skillResult holds the skill scorer output for one candidate
type skillResult struct {
	score             float64 // 0-100
	requiredRatio     float64 // 0-1
	preferredRatio    float64 // 0-1
	satisfiesRequired bool
	matched           []string
	missingRequired   []string
	relevantYears     float64
}

// indexSkills maps skill keys to the candidate's strongest entry for that skill
func indexSkills(skills []types.CandidateSkill) map[string]types.CandidateSkill {
	index := make(map[string]types.CandidateSkill, len(skills))
	for _, s := range skills {
		key := parsing.SkillKey(s.Name)
		if key == "" {
			continue
		}
		existing, ok := index[key]
		if !ok || s.Level.Rank() > existing.Level.Rank() ||
			(s.Level.Rank() == existing.Level.Rank() && s.Years > existing.Years) {
			index[key] = s
		}
	}
	return index
}

// levelMatchFactor returns 1.0 when the candidate meets or exceeds the required level
// and the rank ratio otherwise.
func levelMatchFactor(have, want types.ProficiencyLevel) float64 {
	wantRank := want.Rank()
	haveRank := have.Rank()
	if wantRank == 0 || haveRank >= wantRank {
		return 1.0
	}
	return float64(haveRank) / float64(wantRank)
}

// scoreDemands returns the weighted match ratio over a demand list and the names matched/missed.
// An empty or zero-weight list is fully satisfied.
func scoreDemands(demands []demand, index map[string]types.CandidateSkill) (ratio float64, matched, missing []string) {
	totalWeight := 0.0
	matchedWeight := 0.0
	for _, d := range demands {
		totalWeight += d.req.Weight
		skill, ok := index[d.key]
		if !ok {
			missing = append(missing, d.req.Name)
			continue
		}
		matched = append(matched, d.req.Name)
		matchedWeight += d.req.Weight * levelMatchFactor(skill.Level, d.req.Level)
	}

	if totalWeight == 0 {
		return 1.0, matched, missing
	}
	return clamp(matchedWeight/totalWeight, 0, 1), matched, missing
}

// scoreSkills compares the project's skill demands against a candidate's skill inventory.
// satisfiesRequired is false iff required skills exist and the candidate holds none of them.
func scoreSkills(demands skillDemands, skills []types.CandidateSkill, w Weights) skillResult {
	index := indexSkills(skills)

	requiredRatio, matchedRequired, missingRequired := scoreDemands(demands.required, index)
	preferredRatio, matchedPreferred, _ := scoreDemands(demands.preferred, index)

	result := skillResult{
		requiredRatio:     requiredRatio,
		preferredRatio:    preferredRatio,
		satisfiesRequired: len(demands.required) == 0 || len(matchedRequired) > 0,
		matched:           append(matchedRequired, matchedPreferred...),
		missingRequired:   missingRequired,
	}
	result.score = clamp((w.RequiredSkillShare*requiredRatio+w.PreferredSkillShare*preferredRatio)*100, 0, 100)

	// Each demanded skill counts once because demands are deduplicated by key
	for _, d := range demands.required {
		if s, ok := index[d.key]; ok {
			result.relevantYears += s.Years
		}
	}
	for _, d := range demands.preferred {
		if s, ok := index[d.key]; ok {
			result.relevantYears += s.Years
		}
	}

	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
