package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-matcher/internal/types"
)

// validateInputs fails fast on the first malformed field. No scoring happens on invalid input.
func validateInputs(project *types.ProjectRequirement, candidates []types.TalentProfile, opts *types.MatchOptions) error {
	if project == nil {
		return &ValidationError{Field: "project", Message: "is required"}
	}
	if err := project.Validate(); err != nil {
		return fromValidator("project", err)
	}
	if project.StartDate.IsZero() {
		return &ValidationError{Field: "project.start_date", Message: "is required"}
	}
	if project.Budget.Min > project.Budget.Max {
		return &ValidationError{
			Field:   "project.budget",
			Message: fmt.Sprintf("min (%.2f) must not exceed max (%.2f)", project.Budget.Min, project.Budget.Max),
		}
	}

	seen := make(map[string]int, len(candidates))
	for i := range candidates {
		prefix := fmt.Sprintf("candidates[%d]", i)
		if err := validateCandidate(prefix, &candidates[i]); err != nil {
			return err
		}
		if first, dup := seen[candidates[i].ID]; dup {
			return &ValidationError{
				Field:   prefix + ".id",
				Message: fmt.Sprintf("duplicate talent id %q (also at candidates[%d])", candidates[i].ID, first),
			}
		}
		seen[candidates[i].ID] = i
	}

	if opts != nil {
		if err := opts.Validate(); err != nil {
			return fromValidator("options", err)
		}
	}

	return nil
}

func validateCandidate(prefix string, c *types.TalentProfile) error {
	if err := c.Validate(); err != nil {
		return fromValidator(prefix, err)
	}

	for j, w := range c.Availability {
		field := fmt.Sprintf("%s.availability[%d]", prefix, j)
		if w.StartDate.IsZero() {
			return &ValidationError{Field: field + ".start_date", Message: "is required"}
		}
		if w.EndDate.IsZero() {
			return &ValidationError{Field: field + ".end_date", Message: "is required"}
		}
		if w.EndDate.Before(w.StartDate.Time) {
			return &ValidationError{
				Field:   field + ".end_date",
				Message: fmt.Sprintf("end date %s is before start date %s", w.EndDate, w.StartDate),
			}
		}
	}

	if c.Rate.PreferredRate > 0 && c.Rate.MinimumRate > c.Rate.PreferredRate {
		return &ValidationError{
			Field:   prefix + ".rate.minimum_rate",
			Message: fmt.Sprintf("minimum rate (%.2f) must not exceed preferred rate (%.2f)", c.Rate.MinimumRate, c.Rate.PreferredRate),
		}
	}

	return nil
}

// fromValidator converts the first struct-tag violation into a ValidationError rooted at prefix.
func fromValidator(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: prefix, Message: err.Error()}
	}

	fe := verrs[0]
	// Namespace starts with the Go type name, e.g. "TalentProfile.skills[0].years"
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}

	return &ValidationError{Field: prefix + "." + path, Message: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "nonblank":
		return "must not be blank"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "proficiency":
		return fmt.Sprintf("unknown proficiency level %q (expected junior, mid, senior or lead)", fe.Value())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
