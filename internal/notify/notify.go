// Package notify publishes match events for candidates whose score clears a threshold.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
)

// DefaultSubject is the base NATS subject; the project urgency is appended
const DefaultSubject = "matches.found"

// MatchEvent announces one high-scoring candidate for a project
type MatchEvent struct {
	ProjectID     string    `json:"project_id"`
	RunID         string    `json:"run_id,omitempty"`
	TalentID      string    `json:"talent_id"`
	Rank          int       `json:"rank"`
	TotalScore    float64   `json:"total_score"`
	Urgency       string    `json:"urgency"`
	MatchedSkills []string  `json:"matched_skills"`
	Notes         string    `json:"notes,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher sends match events to subscribers
type Publisher interface {
	PublishMatches(ctx context.Context, project *types.ProjectRequirement, runID string, results []types.MatchResult) (int, error)
	Close()
}

// BuildEvents returns one event per result at or above threshold, keeping rank order.
// Rank is the 1-based position in the full ranked list.
func BuildEvents(project *types.ProjectRequirement, runID string, results []types.MatchResult, threshold float64, now time.Time) []MatchEvent {
	urgency := normalizeUrgency(project.Urgency)

	var events []MatchEvent
	for i, r := range results {
		if r.TotalScore < threshold {
			continue
		}
		events = append(events, MatchEvent{
			ProjectID:     project.ID,
			RunID:         runID,
			TalentID:      r.TalentID,
			Rank:          i + 1,
			TotalScore:    r.TotalScore,
			Urgency:       urgency,
			MatchedSkills: r.MatchedSkills,
			Notes:         r.Notes,
			OccurredAt:    now.UTC(),
		})
	}
	return events
}

// Subject returns the subject for an urgency, e.g. "matches.found.high"
func Subject(base, urgency string) string {
	if base == "" {
		base = DefaultSubject
	}
	return base + "." + normalizeUrgency(urgency)
}

func normalizeUrgency(urgency string) string {
	u := strings.ToLower(strings.TrimSpace(urgency))
	if u == "" {
		return "normal"
	}
	return u
}

// Nop discards every event
type Nop struct{}

func (Nop) PublishMatches(context.Context, *types.ProjectRequirement, string, []types.MatchResult) (int, error) {
	return 0, nil
}

func (Nop) Close() {}
