// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintProject outputs a human-readable summary of the project being staffed.
func (p *Printer) PrintProject(project *types.ProjectRequirement) {
	if project == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Project:  %s\n", project.ID))
	if project.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", project.Title))
	}
	sb.WriteString(fmt.Sprintf("Window:   %s + %d weeks\n", project.StartDate, project.DurationWeeks))
	if project.Budget.Max > 0 {
		sb.WriteString(fmt.Sprintf("Budget:   %.0f-%.0f %s/h\n", project.Budget.Min, project.Budget.Max, project.Budget.Currency))
	}
	if project.LocationMode != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", project.LocationMode))
	}
	sb.WriteString("\n")

	writeSkills(&sb, "Required Skills", project.RequiredSkills)
	writeSkills(&sb, "Preferred Skills", project.PreferredSkills)

	p.printBox("PROJECT REQUIREMENT", strings.TrimSuffix(sb.String(), "\n"))
}

func writeSkills(sb *strings.Builder, heading string, skills []types.SkillRequirement) {
	if len(skills) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := skills[i]
		sb.WriteString(fmt.Sprintf("  • %s", s.Name))
		if s.Level != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", s.Level))
		}
		sb.WriteString(fmt.Sprintf(" w=%g\n", s.Weight))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintMatchResults outputs the top N ranked candidates with their sub-scores.
func (p *Printer) PrintMatchResults(results []types.MatchResult, scored int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates scored: %d, ranked: %d\n", scored, len(results)))

	if len(results) == 0 {
		sb.WriteString("\nNo candidate passed the filters")
		p.printBox("RANKED MATCHES", sb.String())
		return
	}
	sb.WriteString("\n")

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s  %.2f\n", i+1, r.TalentID, r.TotalScore))
		sb.WriteString(fmt.Sprintf("    skill %.1f  avail/rate %.1f  context %.1f\n",
			r.SkillScore, r.AvailabilityRateScore, r.ContextualScore))
		if len(r.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", truncate(strings.Join(r.MatchedSkills, ", "), 40)))
		}
		if len(r.MissingRequiredSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", truncate(strings.Join(r.MissingRequiredSkills, ", "), 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(results)-maxItemsToShow))
	}

	p.printBox("RANKED MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNotes outputs the explanation generated for each shown result.
func (p *Printer) PrintNotes(results []types.MatchResult) {
	var lines []string
	for i := 0; i < min(len(results), maxItemsToShow); i++ {
		if results[i].Notes == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", results[i].TalentID, results[i].Notes))
	}
	if len(lines) == 0 {
		return
	}
	p.printBox("MATCH NOTES", strings.Join(lines, "\n"))
}

// PrintTiming outputs how long the run took.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTiming(d time.Duration) {
	fmt.Fprintf(p.out, "Completed in %s\n", d.Round(time.Millisecond))
}
