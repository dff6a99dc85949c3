package matching

import (
	"strings"

	"github.com/jonathan/talent-matcher/internal/types"
)

// Point budget of the contextual score; the maxima sum to 100.
const (
	locationPoints        = 30.0
	locationPenalty       = -10.0
	workStylePoints       = 10.0
	companySizePoints     = 10.0
	industryPoints        = 10.0
	communicationPoints   = 5.0
	languagePoints        = 5.0
	reputationPointsTotal = 30.0
)

// contextResult holds the contextual scorer output for one candidate
type contextResult struct {
	score      float64 // 0-100
	reputation float64 // 0-1
}

// scoreContext sums the soft-preference dimensions and clamps the total to [0,100].
func scoreContext(project *types.ProjectRequirement, candidate *types.TalentProfile, w Weights) contextResult {
	rep := reputationScore(candidate.Rating, candidate.ReviewCount, w.ReputationDamping)

	total := scoreLocation(project, candidate) +
		scorePreference(project.WorkStyle, candidate.Preferences.WorkStyles, workStylePoints) +
		scorePreference(project.CompanySize, candidate.Preferences.CompanySizes, companySizePoints) +
		scorePreference(project.Industry, candidate.Preferences.Industries, industryPoints) +
		scorePreference(project.CommunicationStyle, nonEmpty(candidate.Preferences.CommunicationStyle), communicationPoints) +
		scoreLanguages(project.Languages, candidate.Languages) +
		reputationPointsTotal*rep

	return contextResult{score: clamp(total, 0, 100), reputation: rep}
}

// scoreLocation rates remote-mode compatibility. An on-site project with a remote-only
// candidate earns a penalty instead of points.
func scoreLocation(project *types.ProjectRequirement, candidate *types.TalentProfile) float64 {
	mode := types.LocationMode(strings.ToLower(string(project.LocationMode)))
	pref := types.LocationMode(strings.ToLower(string(candidate.RemotePreference)))

	if mode == "" {
		return locationPoints
	}
	if pref == "" {
		return locationPoints / 2
	}

	var points float64
	switch {
	case pref == types.ModeFlexible || pref == mode:
		points = locationPoints
	case mode == types.ModeOnsite && pref == types.ModeRemote:
		return locationPenalty
	default:
		points = locationPoints / 2
	}

	// Presence modes also care about where the candidate is
	if mode != types.ModeRemote && project.Location != "" && candidate.Location != "" &&
		!strings.EqualFold(strings.TrimSpace(project.Location), strings.TrimSpace(candidate.Location)) {
		points /= 2
	}
	return points
}

// scorePreference awards full points when the project has no preference or the candidate
// lists it, half points when the candidate states nothing, and zero otherwise.
func scorePreference(wanted string, offered []string, points float64) float64 {
	if strings.TrimSpace(wanted) == "" {
		return points
	}
	if len(offered) == 0 {
		return points / 2
	}
	if containsFold(offered, wanted) {
		return points
	}
	return 0
}

// scoreLanguages awards points in proportion to the project languages the candidate speaks
func scoreLanguages(wanted, spoken []string) float64 {
	if len(wanted) == 0 {
		return languagePoints
	}
	if len(spoken) == 0 {
		return languagePoints / 2
	}
	hits := 0
	for _, lang := range wanted {
		if containsFold(spoken, lang) {
			hits++
		}
	}
	return languagePoints * float64(hits) / float64(len(wanted))
}

// reputationScore is a confidence-weighted rating in [0,1]. The review count damps the
// rating, so a 5.0 rating from one review scores below 4.5 from fifty reviews.
func reputationScore(rating float64, reviews int, damping float64) float64 {
	if reviews <= 0 || rating <= 0 {
		return 0
	}
	n := float64(reviews)
	confidence := n / (n + damping)
	return clamp(rating/5*confidence, 0, 1)
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}

func nonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}
