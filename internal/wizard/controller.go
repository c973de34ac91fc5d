// Package wizard implements the step state machine that walks a user through
// the resume sections and hands the finished draft to the generation service.
package wizard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/jonathan/resume-wizard/internal/validation"
)

// Phase tells whether the session is collecting data or showing a render.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhasePreviewing Phase = "previewing"
)

// Generator turns a complete draft into rendered markup.
type Generator interface {
	Generate(ctx context.Context, d types.Draft) (generation.Result, error)
}

// Controller owns the Draft for the duration of a session and decides every
// step transition.
type Controller struct {
	mu     sync.Mutex
	id     string
	layout Layout
	index  int
	phase  Phase
	store  *draft.Store
	gen    Generator
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore uses an existing store instead of a fresh one.
func WithStore(s *draft.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Controller positioned at the first step of layout with an empty Draft.
func New(layout Layout, gen Generator, opts ...Option) (*Controller, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		id:     uuid.New().String(),
		layout: layout,
		phase:  PhaseEditing,
		gen:    gen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = draft.NewStore(draft.WithLogger(c.logger))
	}
	c.logger = c.logger.With(observability.SessionID(c.id))
	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Layout returns the step layout.
func (c *Controller) Layout() Layout { return c.layout }

// Store exposes the draft store so views can subscribe to changes.
func (c *Controller) Store() *draft.Store { return c.store }

// Draft returns the current Draft.
func (c *Controller) Draft() types.Draft { return c.store.Snapshot() }

// Index returns the zero-based position of the active step.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Steps[c.index]
}

// Phase returns whether the session is editing or previewing.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// IsFirst reports whether the active step is the first one.
func (c *Controller) IsFirst() bool { return c.Index() == 0 }

// IsFinal reports whether the active step is the terminal one.
func (c *Controller) IsFinal() bool { return c.Index() == len(c.layout.Steps)-1 }

// Patch forwards a section patch to the store.
func (c *Controller) Patch(p draft.Patch) (types.Draft, error) {
	if c.Phase() == PhasePreviewing {
		return c.store.Snapshot(), ErrPreviewing
	}
	return c.store.Patch(p)
}

// PatchFields forwards a key/value patch to the store.
func (c *Controller) PatchFields(section types.SectionID, fields map[string]string) (types.Draft, error) {
	if c.Phase() == PhasePreviewing {
		return c.store.Snapshot(), ErrPreviewing
	}
	return c.store.PatchFields(section, fields)
}

// ValidateCurrent runs the active step's validators without moving.
func (c *Controller) ValidateCurrent() validation.Result {
	step := c.Current()
	return validation.Sections(step.Sections, c.store.Snapshot())
}

// Advance moves one step forward when the active step is valid. An invalid
// step yields a *validation.ValidationError and the position does not change.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhasePreviewing {
		return ErrPreviewing
	}
	if c.index == len(c.layout.Steps)-1 {
		return ErrAtFinalStep
	}

	step := c.layout.Steps[c.index]
	if err := validation.Sections(step.Sections, c.store.Snapshot()).Err(step.Sections...); err != nil {
		c.logger.Debug("advance refused", observability.Step(step.Name), observability.Err(err))
		return err
	}

	c.index++
	c.logger.Debug("advanced", observability.Step(c.layout.Steps[c.index].Name))
	return nil
}

// Retreat moves one step back without validating. It returns false on the first step.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhasePreviewing || c.index == 0 {
		return false
	}
	c.index--
	c.logger.Debug("retreated", observability.Step(c.layout.Steps[c.index].Name))
	return true
}

// Submit re-validates every section and, when all pass, calls the generator
// once with the complete Draft. On success the session moves to previewing.
// Validation and generation failures leave the step and phase unchanged.
func (c *Controller) Submit(ctx context.Context) (generation.Result, error) {
	c.mu.Lock()
	if c.phase == PhasePreviewing {
		c.mu.Unlock()
		return generation.Result{}, ErrPreviewing
	}
	if c.index != len(c.layout.Steps)-1 {
		c.mu.Unlock()
		return generation.Result{}, ErrNotAtFinalStep
	}
	d := c.store.Snapshot()
	c.mu.Unlock()

	if err := validation.All(d).Err(types.AllSections...); err != nil {
		c.logger.Info("submit refused", observability.Err(err))
		return generation.Result{}, err
	}

	result, err := c.gen.Generate(ctx, d)
	if err != nil {
		return generation.Result{}, err
	}

	c.mu.Lock()
	c.phase = PhasePreviewing
	c.mu.Unlock()
	c.logger.Info("draft generated; previewing")
	return result, nil
}

// BackToEditing leaves the preview and returns to the final step with the Draft intact.
func (c *Controller) BackToEditing() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhasePreviewing {
		return ErrNotPreviewing
	}
	c.phase = PhaseEditing
	c.index = len(c.layout.Steps) - 1
	return nil
}

// Reset discards the Draft and restarts at the first step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Reset()
	c.index = 0
	c.phase = PhaseEditing
	c.logger.Info("session restarted")
}
