package main

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-matcher/internal/schemas"
	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Store projects and talent profiles in PostgreSQL",
	Long:  "Validates and upserts a ProjectRequirement and/or a talent profiles array into the database used by 'serve', applying migrations first.",
	RunE:  runLoad,
}

var (
	loadProject    string
	loadCandidates string
	loadDelete     string
)

func init() {
	loadCmd.Flags().StringVarP(&loadProject, "project", "p", "", "Path to a ProjectRequirement JSON file")
	loadCmd.Flags().StringVarP(&loadCandidates, "candidates", "c", "", "Path to a talent profiles JSON array")
	loadCmd.Flags().StringVar(&loadDelete, "delete-project", "", "ID of a stored project to remove")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	if loadProject == "" && loadCandidates == "" && loadDelete == "" {
		return fmt.Errorf("at least one of --project, --candidates or --delete-project is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is required (set MATCH_DATABASE_URL or use --config)")
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	database, err := connectDatabase(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if loadProject != "" {
		if err := validateInput(schemas.ProjectRequirement, loadProject); err != nil {
			return err
		}
		var project types.ProjectRequirement
		if err := readJSON(loadProject, &project); err != nil {
			return err
		}
		if err := project.Validate(); err != nil {
			return fmt.Errorf("invalid project %s: %w", project.ID, err)
		}
		if err := database.SaveProjectRequirement(ctx, &project); err != nil {
			return err
		}
		log.Info("stored project", zap.String("project_id", project.ID))
	}

	if loadCandidates != "" {
		if err := validateInput(schemas.TalentProfiles, loadCandidates); err != nil {
			return err
		}
		var candidates []types.TalentProfile
		if err := readJSON(loadCandidates, &candidates); err != nil {
			return err
		}
		for i := range candidates {
			if err := candidates[i].Validate(); err != nil {
				return fmt.Errorf("invalid talent profile %s: %w", candidates[i].ID, err)
			}
			if err := database.SaveTalentProfile(ctx, &candidates[i]); err != nil {
				return err
			}
		}
		log.Info("stored talent profiles", zap.Int("count", len(candidates)))
	}

	if loadDelete != "" {
		if err := database.DeleteProjectRequirement(ctx, loadDelete); err != nil {
			return err
		}
		log.Info("deleted project", zap.String("project_id", loadDelete))
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Load complete")
	return nil
}
