package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/rendering"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/validation"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the resume markup for a saved draft",
	Long:  "Sends a valid draft to the generation service and prints the preview, or writes the markup to --out.",
	RunE:  runGenerate,
}

var (
	generateDraft string
	generateOut   string
)

func init() {
	generateCmd.Flags().StringVarP(&generateDraft, "draft", "d", "", "Path to draft JSON file (required)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the generated HTML to this file instead of printing a preview")

	if err := generateCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.finish()

	d, err := schemas.LoadDraft(generateDraft)
	if err != nil {
		return err
	}
	if result := validation.All(d); !result.Valid {
		rt.printer.PrintFieldErrors("PLEASE FIX", result.FieldErrors)
		return result.Err()
	}

	client, err := rt.generationClient()
	if err != nil {
		return err
	}
	result, err := client.Generate(cmd.Context(), d)
	rt.printNotices()
	if err != nil {
		return err
	}

	if generateOut == "" {
		blocks, err := rendering.Preview(result.Markup)
		if err != nil {
			return err
		}
		rt.printer.PrintPreview(blocks)
		return nil
	}

	if dir := filepath.Dir(generateOut); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(generateOut, []byte(result.Markup), 0644); err != nil {
		return fmt.Errorf("failed to write markup to %s: %w", generateOut, err)
	}
	rt.logger.Debug("markup written", observability.Path(generateOut))
	_, _ = fmt.Fprintf(rt.out, "Resume written to %s\n", generateOut)
	return nil
}
