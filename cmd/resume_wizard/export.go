package main

import (
	"fmt"

	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/validation"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the PDF for a saved draft",
	Long:  "Sends a valid draft to the PDF service and saves the response as resume.pdf (or pdf_name) in the output directory.",
	RunE:  runExport,
}

var (
	exportDraft  string
	exportOutDir string
)

func init() {
	exportCmd.Flags().StringVarP(&exportDraft, "draft", "d", "", "Path to draft JSON file (required)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out-dir", "o", "", "Directory for the PDF (overrides output_dir)")

	if err := exportCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.finish()

	d, err := schemas.LoadDraft(exportDraft)
	if err != nil {
		return err
	}
	if result := validation.All(d); !result.Valid {
		rt.printer.PrintFieldErrors("PLEASE FIX", result.FieldErrors)
		return result.Err()
	}

	client, err := rt.exportClient(exportOutDir)
	if err != nil {
		return err
	}
	path, err := client.ExportPDF(cmd.Context(), d)
	rt.printNotices()
	if err != nil {
		return err
	}

	pages := 0
	if info, err := export.Inspect(path); err != nil {
		rt.logger.Warn("could not inspect saved pdf", observability.Path(path), observability.Err(err))
	} else {
		pages = info.Pages
	}
	rt.printer.PrintExport(path, pages)
	return nil
}
