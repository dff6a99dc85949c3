package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintProject(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	project := &types.ProjectRequirement{
		ID:    "proj_001",
		Title: "Frontend rebuild",
		RequiredSkills: []types.SkillRequirement{
			{Name: "React", Level: types.LevelSenior, Weight: 10, IsRequired: true},
		},
		PreferredSkills: []types.SkillRequirement{
			{Name: "Node.js", Weight: 5},
		},
		Budget:        types.Budget{Min: 50, Max: 100, Currency: "USD"},
		StartDate:     types.NewDate(2024, time.January, 1),
		DurationWeeks: 4,
		LocationMode:  types.ModeRemote,
	}

	p.PrintProject(project)
	output := buf.String()

	assert.Contains(t, output, "PROJECT REQUIREMENT")
	assert.Contains(t, output, "proj_001")
	assert.Contains(t, output, "Frontend rebuild")
	assert.Contains(t, output, "2024-01-01 + 4 weeks")
	assert.Contains(t, output, "50-100 USD/h")
	assert.Contains(t, output, "React (senior) w=10")
	assert.Contains(t, output, "Node.js w=5")
}

func TestPrintProject_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProject(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMatchResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.MatchResult{
		{
			TalentID:              "talent_a",
			TotalScore:            81.16,
			SkillScore:            70,
			AvailabilityRateScore: 100,
			ContextualScore:       91.6,
			MatchedSkills:         []string{"React", "TypeScript"},
		},
		{
			TalentID:              "talent_b",
			TotalScore:            54.72,
			MatchedSkills:         []string{"React"},
			MissingRequiredSkills: []string{"TypeScript"},
		},
	}

	p.PrintMatchResults(results, 3)
	output := buf.String()

	assert.Contains(t, output, "RANKED MATCHES")
	assert.Contains(t, output, "Candidates scored: 3, ranked: 2")
	assert.Contains(t, output, "#1  talent_a  81.16")
	assert.Contains(t, output, "React, TypeScript")
	assert.Contains(t, output, "Missing: TypeScript")
	assert.Less(t, strings.Index(output, "talent_a"), strings.Index(output, "talent_b"))
}

func TestPrintMatchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResults(nil, 4)

	assert.Contains(t, buf.String(), "No candidate passed the filters")
}

func TestPrintMatchResults_Truncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := make([]types.MatchResult, 8)
	for i := range results {
		results[i] = types.MatchResult{TalentID: fmt.Sprintf("t%d", i), TotalScore: float64(90 - i)}
	}

	p.PrintMatchResults(results, 8)
	output := buf.String()

	assert.Contains(t, output, "... and 3 more candidates")
	assert.NotContains(t, output, "t5")
}

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNotes([]types.MatchResult{
		{TalentID: "talent_a", Notes: "Strong skill match"},
		{TalentID: "talent_b"},
	})
	output := buf.String()

	assert.Contains(t, output, "MATCH NOTES")
	assert.Contains(t, output, "talent_a: Strong skill match")
	assert.NotContains(t, output, "talent_b")
}

func TestPrintNotes_NoneIsSilent(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintNotes([]types.MatchResult{{TalentID: "x"}})
	assert.Empty(t, buf.String())
}

func TestPrintTiming(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTiming(1234567 * time.Microsecond)
	assert.Equal(t, "Completed in 1.235s\n", buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
