// Package matching scores and ranks candidate talent profiles against a project's requirements.
package matching

import (
	"context"
	"runtime"

	"github.com/jonathan/talent-matcher/internal/types"
	"golang.org/x/sync/errgroup"
)

// Engine scores a pre-selected candidate pool against one project.
// It holds only its configuration, so a single value may be shared by concurrent calls.
type Engine struct {
	weights Weights
	workers int
}

// New creates an Engine with the given weights. workers <= 0 uses GOMAXPROCS.
func New(weights Weights, workers int) (Engine, error) {
	if err := weights.Validate(); err != nil {
		return Engine{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return Engine{weights: weights, workers: workers}, nil
}

// NewDefault creates an Engine with DefaultWeights.
func NewDefault() Engine {
	return Engine{weights: DefaultWeights(), workers: runtime.GOMAXPROCS(0)}
}

// Weights returns the ranking policy in use
func (e Engine) Weights() Weights {
	return e.weights
}

// FindMatches scores every candidate, drops those failing a hard filter or the optional
// score threshold, and returns the rest ranked best first.
//
// Ranking is a total order: total score desc, then reputation desc, then relevant years
// desc, then talent ID asc. Invalid input returns a *ValidationError and no results.
// Cancellation of ctx is checked between candidates.
func (e Engine) FindMatches(
	ctx context.Context,
	project *types.ProjectRequirement,
	candidates []types.TalentProfile,
	opts *types.MatchOptions,
) ([]types.MatchResult, error) {
	if e.weights.IsZero() {
		e = NewDefault()
	}
	if err := validateInputs(project, candidates, opts); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []types.MatchResult{}, nil
	}

	demands := prepareDemands(project)

	// Each goroutine writes only its own slot
	scored := make([]*types.MatchResult, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.workers, 1))
	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			scored[i] = e.scoreCandidate(project, demands, &candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]types.MatchResult, 0, len(scored))
	for _, r := range scored {
		if r == nil {
			continue
		}
		if opts != nil && opts.MinScore != nil && r.TotalScore < *opts.MinScore {
			continue
		}
		results = append(results, *r)
	}

	sortResults(results)

	if opts != nil && opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

// scoreCandidate runs every scorer for one candidate. It returns nil when the candidate
// fails a hard filter.
func (e Engine) scoreCandidate(project *types.ProjectRequirement, demands skillDemands, candidate *types.TalentProfile) *types.MatchResult {
	skills := scoreSkills(demands, candidate.Skills, e.weights)
	if !skills.satisfiesRequired {
		return nil
	}

	availability, eligible := scoreAvailability(project, candidate)
	if !eligible {
		return nil
	}

	rate := scoreRate(project.Budget, candidate.Rate)
	availRate := availabilityRateScore(availability, rate, e.weights)
	fit := scoreContext(project, candidate, e.weights)

	total := e.weights.Skill*skills.score +
		e.weights.AvailabilityRate*availRate +
		e.weights.Contextual*fit.score

	matched := skills.matched
	if matched == nil {
		matched = []string{}
	}

	return &types.MatchResult{
		TalentID:              candidate.ID,
		TotalScore:            clamp(total, 0, 100),
		SkillScore:            skills.score,
		AvailabilityRateScore: availRate,
		ContextualScore:       fit.score,
		AvailabilityScore:     availability,
		RateScore:             rate,
		ReputationScore:       fit.reputation,
		RelevantYears:         skills.relevantYears,
		MatchedSkills:         matched,
		MissingRequiredSkills: skills.missingRequired,
		Notes:                 generateNotes(skills, availability, rate),
	}
}
