package main

import (
	"fmt"

	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a saved draft",
	Long:  "Checks a draft JSON file against the draft schema and the section rules, listing every field that needs fixing.",
	RunE:  runValidate,
}

var validateDraft string

func init() {
	validateCmd.Flags().StringVarP(&validateDraft, "draft", "d", "", "Path to draft JSON file (required)")

	if err := validateCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	d, err := schemas.LoadDraft(validateDraft)
	if err != nil {
		return err
	}

	result := validation.All(d)
	observability.NewPrinter(cmd.OutOrStdout()).PrintFieldErrors("VALIDATION", result.FieldErrors)
	if !result.Valid {
		return fmt.Errorf("draft has %d invalid field(s)", len(result.FieldErrors))
	}
	return nil
}
