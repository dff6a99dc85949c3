package parsing

import (
	"testing"

	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JS to JavaScript", "JS", "JavaScript"},
		{"TS to TypeScript", "ts", "TypeScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"reactjs to React", "reactjs", "React"},
		{"REACT to React", "REACT", "React"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"postgres to PostgreSQL", "postgres", "PostgreSQL"},
		{"python to Python", "python", "Python"},
		{"PYTHON to Python", "PYTHON", "Python"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", "Distributed Systems", "Distributed Systems"},
		{"Mixed case kept", "GraphQL", "GraphQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestSkillKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, SkillKey("React"), SkillKey("react"))
	assert.Equal(t, SkillKey("React"), SkillKey("REACT.JS"))
	assert.Equal(t, SkillKey("TypeScript"), SkillKey("ts"))
	assert.Equal(t, SkillKey("graphql"), SkillKey("GraphQL"))
	assert.NotEqual(t, SkillKey("JavaScript"), SkillKey("TypeScript"))
}

func TestNormalizeRequirements_MergesDuplicates(t *testing.T) {
	input := []types.SkillRequirement{
		{Name: "react", Level: types.LevelMid, Weight: 5},
		{Name: "React.js", Level: types.LevelSenior, Weight: 3, IsRequired: true},
		{Name: "Go", Level: types.LevelJunior, Weight: 2},
	}

	result := NormalizeRequirements(input)

	assert.Equal(t, []types.SkillRequirement{
		{Name: "React", Level: types.LevelSenior, Weight: 5, IsRequired: true},
		{Name: "Go", Level: types.LevelJunior, Weight: 2},
	}, result)

	// Input is untouched
	assert.Equal(t, "react", input[0].Name)
}

func TestNormalizeRequirements_SkipsEmptyNames(t *testing.T) {
	result := NormalizeRequirements([]types.SkillRequirement{{Name: "  ", Weight: 1}})
	assert.Empty(t, result)
	assert.Nil(t, NormalizeRequirements(nil))
}
