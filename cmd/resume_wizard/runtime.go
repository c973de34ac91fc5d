package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/fetch"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/jonathan/resume-wizard/internal/metrics"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/wizard"
	"github.com/spf13/cobra"
)

// runtime bundles the resolved configuration and the shared collaborators of a command.
type runtime struct {
	cfg      config.Config
	out      io.Writer
	logger   *slog.Logger
	printer  *observability.Printer
	notices  *observability.NoticeLog
	prom     *metrics.PrometheusRecorder
	recorder metrics.Recorder
	fetch    *fetch.Options
}

// loadRuntime resolves configuration with precedence flags > env > config file > defaults.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("layout") {
		cfg.Layout = layoutName
	}
	if flags.Changed("layout-file") {
		cfg.LayoutFile = layoutFile
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = timeoutSecs
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	rt := &runtime{
		cfg:      cfg,
		out:      cmd.OutOrStdout(),
		logger:   logger,
		printer:  observability.NewPrinter(cmd.OutOrStdout()),
		notices:  &observability.NoticeLog{},
		recorder: metrics.NoopRecorder{},
		fetch:    fetch.DefaultOptions(),
	}
	rt.fetch.Timeout = cfg.Timeout()
	if cfg.MetricsFile != "" {
		rt.prom = metrics.NewPrometheusRecorder(nil)
		rt.recorder = rt.prom
	}

	logger.Debug("configuration resolved",
		slog.String("api_url", cfg.APIURL),
		slog.String("layout", cfg.Layout),
		slog.String("output_dir", cfg.OutputDir))
	return rt, nil
}

func (rt *runtime) generationClient() (*generation.Client, error) {
	return generation.New(rt.cfg.APIURL,
		generation.WithFetchOptions(rt.fetch),
		generation.WithNotifier(rt.notices),
		generation.WithRecorder(rt.recorder),
		generation.WithLogger(rt.logger))
}

func (rt *runtime) exportClient(outputDir string) (*export.Client, error) {
	if outputDir == "" {
		outputDir = rt.cfg.OutputDir
	}
	return export.New(rt.cfg.APIURL,
		export.WithOutputDir(outputDir),
		export.WithFileName(rt.cfg.PDFName),
		export.WithFetchOptions(rt.fetch),
		export.WithNotifier(rt.notices),
		export.WithRecorder(rt.recorder),
		export.WithLogger(rt.logger))
}

func (rt *runtime) layout() (wizard.Layout, error) {
	if rt.cfg.LayoutFile != "" {
		return wizard.LoadLayout(rt.cfg.LayoutFile)
	}
	return wizard.LayoutByName(rt.cfg.Layout)
}

// printNotices flushes notices raised by the network clients.
func (rt *runtime) printNotices() {
	for _, n := range rt.notices.Drain() {
		rt.printer.PrintNotice(n)
	}
}

// finish writes the metrics textfile when one is configured.
func (rt *runtime) finish() {
	if rt.prom == nil {
		return
	}
	if err := rt.prom.WriteTextfile(rt.cfg.MetricsFile); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: could not write metrics file: %v\n", err)
		return
	}
	rt.logger.Debug("metrics written", observability.Path(rt.cfg.MetricsFile))
}
