package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jonathan/talent-matcher/internal/matching"
	"github.com/jonathan/talent-matcher/internal/observability"
	"github.com/jonathan/talent-matcher/internal/schemas"
	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank talent profiles against a project requirement",
	Long:  "Scores every talent profile in a JSON array against a ProjectRequirement JSON file and writes the ranked MatchResults JSON.",
	RunE:  runMatch,
}

var (
	matchProject    string
	matchCandidates string
	matchOutput     string
	matchMinScore   float64
	matchLimit      int
	matchVerbose    bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchProject, "project", "p", "", "Path to input ProjectRequirement JSON file (required)")
	matchCmd.Flags().StringVarP(&matchCandidates, "candidates", "c", "", "Path to input talent profiles JSON array (required)")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output MatchResults JSON file (required)")
	matchCmd.Flags().Float64Var(&matchMinScore, "min-score", 0, "Drop results scoring below this total (0-100)")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "Keep only the top N results (0 = all)")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print a ranked summary")

	if err := matchCmd.MarkFlagRequired("project"); err != nil {
		panic(fmt.Sprintf("failed to mark project flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engine, err := matching.New(cfg.Weights, cfg.Workers)
	if err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	// 1. Validate inputs against their schemas
	if err := validateInput(schemas.ProjectRequirement, matchProject); err != nil {
		return err
	}
	if err := validateInput(schemas.TalentProfiles, matchCandidates); err != nil {
		return err
	}

	// 2. Load inputs
	var project types.ProjectRequirement
	if err := readJSON(matchProject, &project); err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	var candidates []types.TalentProfile
	if err := readJSON(matchCandidates, &candidates); err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}

	opts := &types.MatchOptions{Limit: matchLimit}
	if cmd.Flags().Changed("min-score") {
		opts.MinScore = &matchMinScore
	}

	// 3. Score and rank
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := engine.FindMatches(ctx, &project, candidates, opts)
	if err != nil {
		var invalid *matching.ValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return fmt.Errorf("failed to match candidates: %w", err)
	}
	elapsed := time.Since(start)

	log.Info("match complete",
		zap.String("project_id", project.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
		zap.Duration("duration", elapsed))

	// 4. Write output
	if err := writeJSON(matchOutput, types.MatchResults{ProjectID: project.ID, Results: results}); err != nil {
		return err
	}

	// 5. Validate output against schema (non-fatal)
	if schemaPath, err := schemas.SchemaPath(schemas.MatchResults); err == nil {
		if err := schemas.ValidateJSON(schemaPath, matchOutput); err != nil {
			log.Warn("output does not validate against schema", zap.Error(err))
		}
	}

	if matchVerbose {
		p := observability.NewPrinter(cmd.OutOrStdout())
		p.PrintProject(&project)
		p.PrintMatchResults(results, len(candidates))
		p.PrintNotes(results)
		p.PrintTiming(elapsed)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d of %d candidates to %s\n", len(results), len(candidates), matchOutput)
	return nil
}

// validateInput checks path against a named schema. A missing schema directory skips the check.
func validateInput(schema, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file not found: %s", path)
	}
	schemaPath, err := schemas.SchemaPath(schema)
	if err != nil {
		return nil
	}
	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return fmt.Errorf("%s failed schema validation: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
