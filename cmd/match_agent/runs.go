package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent match runs for a stored project",
	RunE:  runRuns,
}

var (
	runsProject string
	runsLimit   int
)

func init() {
	runsCmd.Flags().StringVarP(&runsProject, "project-id", "p", "", "Project ID (required)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")

	if err := runsCmd.MarkFlagRequired("project-id"); err != nil {
		panic(fmt.Sprintf("failed to mark project-id flag as required: %v", err))
	}

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
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

	runs, err := database.ListMatchRuns(ctx, runsProject, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No runs for project %s\n", runsProject)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tCREATED\tRESULTS\tTOP TALENT")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.ResultCount, r.TopTalentID)
	}
	return w.Flush()
}
