// Package draft owns the in-progress resume document and applies section patches to it.
package draft

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/types"
)

// Listener observes every successful patch. It receives the patched section
// and the resulting Draft; views use it to re-render the active step.
type Listener func(section types.SectionID, d types.Draft)

// Store holds the single mutable Draft of a wizard session.
type Store struct {
	mu        sync.Mutex
	current   types.Draft
	listeners map[int]Listener
	nextID    int
	strict    bool
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStrict makes invariant violations panic instead of returning an error.
// Development builds and tests enable it.
func WithStrict(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithLogger sets the logger used for patch debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store holding an empty Draft.
func NewStore(opts ...Option) *Store {
	s := &Store{
		current:   types.NewDraft(),
		listeners: make(map[int]Listener),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Patch applies p atomically and returns the new Draft. Keys outside the
// patched section keep their previous values and backing arrays.
func (s *Store) Patch(p Patch) (types.Draft, error) {
	if p == nil {
		return s.Snapshot(), s.violation(&InvariantError{Message: "nil patch"})
	}

	s.mu.Lock()
	s.current = p.apply(s.current)
	next := s.current
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("draft patched", observability.Section(string(p.Section())))
	for _, l := range listeners {
		l(p.Section(), next)
	}
	return next, nil
}

// PatchFields applies a key/value patch from a data-driven form.
func (s *Store) PatchFields(section types.SectionID, fields map[string]string) (types.Draft, error) {
	p, err := FieldsPatch(section, fields)
	if err != nil {
		return s.Snapshot(), s.violation(err)
	}
	return s.Patch(p)
}

// Load replaces every section with the values of d, one section patch at a time.
func (s *Store) Load(d types.Draft) types.Draft {
	patches := []Patch{
		ContactFrom(d.ContactSection()),
		ExperiencePatch{Experiences: d.Experiences},
		EducationPatch{Education: d.Education},
		ProjectsPatch{Projects: d.Projects},
		SkillsPatch{Skills: d.Skills},
	}
	var out types.Draft
	for _, p := range patches {
		out, _ = s.Patch(p)
	}
	return out
}

// Snapshot returns the current Draft.
func (s *Store) Snapshot() types.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset discards the Draft and starts over with an empty one. Listeners are
// notified once per section, like a Load of the empty Draft.
func (s *Store) Reset() {
	s.mu.Lock()
	s.current = types.NewDraft()
	next := s.current
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("draft reset")
	for _, section := range types.AllSections {
		for _, l := range listeners {
			l(section, next)
		}
	}
}

func (s *Store) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

func (s *Store) violation(err error) error {
	if s.strict {
		panic(err)
	}
	s.logger.Error("draft invariant violated", observability.Err(err))
	return err
}
