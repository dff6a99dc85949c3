// Package parsing provides skill-name normalization shared by the matching engine and the storage layer.
package parsing

import (
	"strings"

	"github.com/jonathan/talent-matcher/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react":      "React",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"c#":         "C#",
	"csharp":     "C#",
	"aws":        "AWS",
	"gcp":        "GCP",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Multi-word and mixed-case names are kept as written
	if strings.Contains(normalized, " ") || (normalized != strings.ToUpper(normalized) && normalized != lower) {
		return normalized
	}

	// Single words in one case: capitalize the first letter only
	runes := []rune(lower)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// SkillKey returns the case-insensitive lookup key for a skill name.
// Two names refer to the same skill iff their keys are equal.
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// NormalizeRequirements canonicalizes skill names and merges duplicate demands.
// Duplicates keep the highest weight and level, and stay required if any copy is required.
// The input slice is not modified.
func NormalizeRequirements(reqs []types.SkillRequirement) []types.SkillRequirement {
	if len(reqs) == 0 {
		return nil
	}

	normalized := make([]types.SkillRequirement, 0, len(reqs))
	seen := make(map[string]int) // skill key -> index in normalized slice

	for _, req := range reqs {
		name := NormalizeSkillName(req.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)

		if idx, exists := seen[key]; exists {
			existing := &normalized[idx]
			if req.Weight > existing.Weight {
				existing.Weight = req.Weight
			}
			if req.Level.Rank() > existing.Level.Rank() {
				existing.Level = req.Level
			}
			existing.IsRequired = existing.IsRequired || req.IsRequired
			continue
		}

		normalized = append(normalized, types.SkillRequirement{
			Name:       name,
			Level:      req.Level,
			Weight:     req.Weight,
			IsRequired: req.IsRequired,
		})
		seen[key] = len(normalized) - 1
	}

	return normalized
}
