//go:build integration
// +build integration

package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabaseEnv(t *testing.T) []string {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
	return []string{"MATCH_DATABASE_URL=" + dbURL}
}

func TestLoadAndRuns_Integration(t *testing.T) {
	env := testDatabaseEnv(t)
	project := absTestdata(t, "valid", "project_requirement.json")
	candidates := absTestdata(t, "valid", "talent_profiles.json")

	output, err := isolatedCommand(t, env, "load", "--project", project, "--candidates", candidates).CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Load complete")

	output, err = isolatedCommand(t, env, "runs", "--project-id", "proj_001", "--limit", "5").CombinedOutput()
	require.NoError(t, err, string(output))
	out := string(output)
	assert.True(t, strings.Contains(out, "RUN ID") || strings.Contains(out, "No runs for project proj_001"), out)

	output, err = isolatedCommand(t, env, "load", "--delete-project", "proj_001").CombinedOutput()
	require.NoError(t, err, string(output))
}

func TestLoadCommand_RejectsInvalidProfile_Integration(t *testing.T) {
	env := testDatabaseEnv(t)
	bad := absTestdata(t, "invalid", "talent_bad_capacity.json")

	output, err := isolatedCommand(t, env, "load", "--candidates", bad).CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "failed schema validation")
}
