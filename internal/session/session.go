// Package session runs the interactive wizard: it prompts for each step,
// drives the controller and shows the generated preview and PDF downloads.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/forms"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/rendering"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/jonathan/resume-wizard/internal/validation"
	"github.com/jonathan/resume-wizard/internal/wizard"
)

// Menu actions.
const (
	ActionNext     = "Next"
	ActionBack     = "Back"
	ActionGenerate = "Generate resume"
	ActionDownload = "Download PDF"
	ActionUpdate   = "Update resume"
	ActionRestart  = "Start over"
	ActionQuit     = "Quit"
)

// Exporter saves the PDF rendition of a draft and returns its path.
type Exporter interface {
	ExportPDF(ctx context.Context, d types.Draft) (string, error)
}

// Deps are the collaborators of a Session.
type Deps struct {
	Controller *wizard.Controller
	Exporter   Exporter
	Driver     forms.PromptDriver
	Catalog    forms.Catalog
	Out        io.Writer
	Notices    *observability.NoticeLog
	Logger     *slog.Logger
	// Inspect reports details of a saved PDF; nil skips inspection.
	Inspect func(path string) (export.Info, error)
}

// Session is one interactive run of the wizard.
type Session struct {
	ctrl     *wizard.Controller
	exporter Exporter
	driver   forms.PromptDriver
	renderer *forms.Renderer
	out      io.Writer
	printer  *observability.Printer
	notices  *observability.NoticeLog
	logger   *slog.Logger
	inspect  func(string) (export.Info, error)

	result      generation.Result
	previewSeen bool
}

// New creates a Session.
func New(deps Deps) (*Session, error) {
	if deps.Controller == nil {
		return nil, errors.New("session: controller is required")
	}
	if deps.Driver == nil {
		return nil, errors.New("session: prompt driver is required")
	}
	if deps.Exporter == nil {
		return nil, errors.New("session: exporter is required")
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Notices == nil {
		deps.Notices = &observability.NoticeLog{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Session{
		ctrl:     deps.Controller,
		exporter: deps.Exporter,
		driver:   deps.Driver,
		renderer: forms.NewRenderer(deps.Driver, deps.Catalog),
		out:      deps.Out,
		printer:  observability.NewPrinter(deps.Out),
		notices:  deps.Notices,
		logger:   deps.Logger.With(observability.SessionID(deps.Controller.ID())),
		inspect:  deps.Inspect,
	}, nil
}

// Run prompts until the user quits. An interrupted prompt ends the session without error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", slog.String("layout", s.ctrl.Layout().Name))
	for {
		var (
			quit bool
			err  error
		)
		switch s.ctrl.Phase() {
		case wizard.PhasePreviewing:
			quit, err = s.preview(ctx)
		default:
			quit, err = s.edit(ctx)
		}
		if errors.Is(err, forms.ErrAborted) {
			s.logger.Info("session aborted")
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			s.logger.Info("session ended")
			return nil
		}
	}
}

func (s *Session) edit(ctx context.Context) (bool, error) {
	step := s.ctrl.Current()
	s.printer.PrintStep(s.ctrl.Index(), len(s.ctrl.Layout().Steps), step.Name)

	for _, section := range step.Sections {
		patch, err := s.renderer.Fill(ctx, section, s.ctrl.Draft())
		if err != nil {
			return false, err
		}
		if _, err := s.ctrl.Patch(patch); err != nil {
			return false, err
		}
	}

	options := s.editOptions()
	idx, err := s.driver.Select(ctx, forms.SelectConfig{Message: "What next?", Options: options})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(options) {
		return false, fmt.Errorf("session: invalid menu choice %d", idx)
	}

	switch options[idx] {
	case ActionNext:
		s.report(s.ctrl.Advance())
	case ActionBack:
		s.ctrl.Retreat()
	case ActionGenerate:
		s.generate(ctx)
	case ActionQuit:
		return true, nil
	}
	return false, nil
}

func (s *Session) editOptions() []string {
	var options []string
	if s.ctrl.IsFinal() {
		options = append(options, ActionGenerate)
	} else {
		options = append(options, ActionNext)
	}
	if !s.ctrl.IsFirst() {
		options = append(options, ActionBack)
	}
	return append(options, ActionQuit)
}

func (s *Session) generate(ctx context.Context) {
	s.printer.PrintDraft(s.ctrl.Draft())
	_, _ = fmt.Fprintln(s.out, "Generating...")

	result, err := s.ctrl.Submit(ctx)
	if err != nil {
		s.report(err)
		return
	}
	s.result = result
	s.previewSeen = false
}

func (s *Session) preview(ctx context.Context) (bool, error) {
	if !s.previewSeen {
		blocks, err := rendering.Preview(s.result.Markup)
		if err != nil {
			s.logger.Warn("preview failed", observability.Err(err))
		}
		s.printer.PrintPreview(blocks)
		s.previewSeen = true
	}

	options := []string{ActionDownload, ActionUpdate, ActionRestart, ActionQuit}
	idx, err := s.driver.Select(ctx, forms.SelectConfig{Message: "Your resume is ready", Options: options})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(options) {
		return false, fmt.Errorf("session: invalid menu choice %d", idx)
	}

	switch options[idx] {
	case ActionDownload:
		s.download(ctx)
	case ActionUpdate:
		if err := s.ctrl.BackToEditing(); err != nil {
			return false, err
		}
	case ActionRestart:
		s.ctrl.Reset()
		s.result = generation.Result{}
	case ActionQuit:
		return true, nil
	}
	return false, nil
}

func (s *Session) download(ctx context.Context) {
	path, err := s.exporter.ExportPDF(ctx, s.ctrl.Draft())
	if err != nil {
		s.report(err)
		return
	}

	pages := 0
	if s.inspect != nil {
		info, err := s.inspect(path)
		if err != nil {
			s.logger.Warn("could not inspect saved pdf", observability.Path(path), observability.Err(err))
		} else {
			pages = info.Pages
		}
	}
	s.printer.PrintExport(path, pages)
}

// report shows a failed action to the user. Field errors are listed; network
// failures already raised a notice, which is printed here.
func (s *Session) report(err error) {
	for _, n := range s.notices.Drain() {
		s.printer.PrintNotice(n)
	}
	if err == nil {
		return
	}

	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		s.printer.PrintFieldErrors("PLEASE FIX", ve.FieldErrors)
	case errors.Is(err, generation.ErrSuperseded), errors.Is(err, export.ErrSuperseded):
		s.logger.Debug("superseded", observability.Err(err))
	default:
		s.logger.Debug("action failed", observability.Err(err))
	}
}
