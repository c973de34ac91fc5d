package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/rendering"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the preview and download the PDF for a saved draft",
	Long:  "Runs generation and PDF export for a valid draft concurrently. Each runs to completion regardless of the other; the command fails if either does.",
	RunE:  runBuild,
}

var (
	buildDraft  string
	buildOutDir string
)

func init() {
	buildCmd.Flags().StringVarP(&buildDraft, "draft", "d", "", "Path to draft JSON file (required)")
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "Directory for the PDF (overrides output_dir)")

	if err := buildCmd.MarkFlagRequired("draft"); err != nil {
		panic(fmt.Sprintf("failed to mark draft flag as required: %v", err))
	}

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.finish()

	d, err := schemas.LoadDraft(buildDraft)
	if err != nil {
		return err
	}
	if result := validation.All(d); !result.Valid {
		rt.printer.PrintFieldErrors("PLEASE FIX", result.FieldErrors)
		return result.Err()
	}

	gen, err := rt.generationClient()
	if err != nil {
		return err
	}
	exp, err := rt.exportClient(buildOutDir)
	if err != nil {
		return err
	}

	// Neither call cancels the other.
	var (
		result         generation.Result
		path           string
		genErr, expErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		result, genErr = gen.Generate(cmd.Context(), d)
		return genErr
	})
	g.Go(func() error {
		path, expErr = exp.ExportPDF(cmd.Context(), d)
		return expErr
	})
	_ = g.Wait()
	rt.printNotices()

	if genErr == nil {
		blocks, err := rendering.Preview(result.Markup)
		if err != nil {
			genErr = err
		} else {
			rt.printer.PrintPreview(blocks)
		}
	}
	if expErr != nil {
		return errors.Join(genErr, expErr)
	}

	pages := 0
	if info, err := export.Inspect(path); err != nil {
		rt.logger.Warn("could not inspect saved pdf", observability.Path(path), observability.Err(err))
	} else {
		pages = info.Pages
	}
	rt.printer.PrintExport(path, pages)
	return genErr
}
