package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/forms"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/session"
	"github.com/jonathan/resume-wizard/internal/wizard"
	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Build a resume step by step",
	Long: "Prompts for each step of the layout, validates the step before moving on, " +
		"generates the resume preview and downloads the PDF on request.",
	RunE: runWizard,
}

var (
	wizardDraft  string
	wizardOutDir string
	wizardStrict bool
)

func init() {
	wizardCmd.Flags().StringVarP(&wizardDraft, "draft", "d", "", "Start from a saved draft JSON file")
	wizardCmd.Flags().StringVarP(&wizardOutDir, "out-dir", "o", "", "Directory for the downloaded PDF (overrides output_dir)")
	wizardCmd.Flags().BoolVar(&wizardStrict, "strict", false, "Panic on draft invariant violations")

	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.finish()

	return runSession(cmd.Context(), rt, forms.NewSurveyDriver())
}

// runSession wires the wizard collaborators around driver and runs one session.
func runSession(parent context.Context, rt *runtime, driver forms.PromptDriver) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	layout, err := rt.layout()
	if err != nil {
		return err
	}
	catalog, err := forms.DefaultCatalog()
	if err != nil {
		return err
	}
	gen, err := rt.generationClient()
	if err != nil {
		return err
	}
	exp, err := rt.exportClient(wizardOutDir)
	if err != nil {
		return err
	}

	store := draft.NewStore(
		draft.WithStrict(wizardStrict || rt.cfg.Strict),
		draft.WithLogger(rt.logger))
	if wizardDraft != "" {
		d, err := schemas.LoadDraft(wizardDraft)
		if err != nil {
			return fmt.Errorf("failed to load draft %s: %w", wizardDraft, err)
		}
		store.Load(d)
	}

	ctrl, err := wizard.New(layout, gen, wizard.WithStore(store), wizard.WithLogger(rt.logger))
	if err != nil {
		return err
	}

	s, err := session.New(session.Deps{
		Controller: ctrl,
		Exporter:   exp,
		Driver:     driver,
		Catalog:    catalog,
		Out:        rt.out,
		Notices:    rt.notices,
		Logger:     rt.logger,
		Inspect:    export.Inspect,
	})
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
