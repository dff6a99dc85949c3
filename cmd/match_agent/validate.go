package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/talent-matcher/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON artifact against a schema",
	Long:  "Validates a JSON file against one of the bundled schemas (project_requirement, talent_profiles, match_results) or a schema file path.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name or path to a .schema.json file (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	schemaPath, err := schemas.SchemaPath(validateSchema)
	if err != nil {
		return err
	}
	if _, err := os.Stat(validateFile); err != nil {
		return fmt.Errorf("JSON file not found: %s", validateFile)
	}

	if err := schemas.ValidateJSON(schemaPath, validateFile); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %s\n", validateFile)
		}
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateFile)
	return nil
}
