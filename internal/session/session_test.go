package session

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/forms"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDriver answers prompts in order. Select answers are option labels.
type scriptedDriver struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	selects  []string
	texts    []string
	menus    [][]string
}

func (d *scriptedDriver) Input(_ context.Context, cfg forms.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg forms.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted for " + cfg.Message)
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg forms.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, forms.ErrAborted
	}
	want := d.selects[0]
	d.selects = d.selects[1:]
	d.menus = append(d.menus, cfg.Options)
	for i, o := range cfg.Options {
		if o == want {
			return i, nil
		}
	}
	d.t.Fatalf("option %q not offered in %v", want, cfg.Options)
	return -1, nil
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg forms.TextAreaConfig) (string, error) {
	if len(d.texts) == 0 {
		return "", errors.New("no text scripted for " + cfg.Message)
	}
	v := d.texts[0]
	d.texts = d.texts[1:]
	return v, nil
}

// contact answers: name, email, phone, (summary), linkedin, github, devpost, category.
func (d *scriptedDriver) contact(name string) {
	d.inputs = append(d.inputs, name, "jane@x.com", "1234567890", "", "", "")
	d.texts = append(d.texts, "Engineer")
	d.selects = append(d.selects, "(none)")
}

// middle answers the consolidated experience/education/projects step.
func (d *scriptedDriver) middle() {
	d.inputs = append(d.inputs, "Engineer", "Acme", "2y")
	d.confirms = append(d.confirms, false)
	d.inputs = append(d.inputs, "BS", "State U", "2019")
	d.confirms = append(d.confirms, false)
	d.confirms = append(d.confirms, false) // no projects
}

type fixture struct {
	session     *Session
	out         *bytes.Buffer
	outputDir   string
	generations *atomic.Int32
	failGen     *atomic.Bool
}

func newFixture(t *testing.T, driver *scriptedDriver) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}, outputDir: t.TempDir(), generations: &atomic.Int32{}, failGen: &atomic.Bool{}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case generation.EndpointPath:
			f.generations.Add(1)
			if f.failGen.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"html":"<h1>Jane Doe</h1><h2>Skills</h2><ul><li>Go</li></ul>"}`))
		case export.EndpointPath:
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4\n%%EOF\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	notices := &observability.NoticeLog{}
	gen, err := generation.New(server.URL, generation.WithNotifier(notices))
	require.NoError(t, err)
	exp, err := export.New(server.URL, export.WithOutputDir(f.outputDir), export.WithNotifier(notices))
	require.NoError(t, err)
	ctrl, err := wizard.New(wizard.Consolidated(), gen)
	require.NoError(t, err)
	catalog, err := forms.DefaultCatalog()
	require.NoError(t, err)

	driver.t = t
	f.session, err = New(Deps{
		Controller: ctrl,
		Exporter:   exp,
		Driver:     driver,
		Catalog:    catalog,
		Out:        f.out,
		Notices:    notices,
		Inspect:    export.Inspect,
	})
	require.NoError(t, err)
	return f
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestRun_HappyPath(t *testing.T) {
	d := &scriptedDriver{}
	d.contact("Jane Doe")
	d.selects = append(d.selects, ActionNext)
	d.middle()
	d.selects = append(d.selects, ActionNext)
	d.inputs = append(d.inputs, "Go, SQL")
	d.selects = append(d.selects, ActionGenerate, ActionDownload, ActionQuit)

	f := newFixture(t, d)
	require.NoError(t, f.session.Run(context.Background()))

	assert.Equal(t, int32(1), f.generations.Load())
	output := f.out.String()
	assert.Contains(t, output, "Step 1 of 3: Contact")
	assert.Contains(t, output, "Step 3 of 3: Skills")
	assert.Contains(t, output, "RESUME PREVIEW")
	assert.Contains(t, output, "JANE DOE")
	assert.Contains(t, output, "PDF DOWNLOADED")

	_, err := os.Stat(filepath.Join(f.outputDir, export.DefaultFileName))
	assert.NoError(t, err)

	// first step offers no Back, final step offers Generate
	assert.Equal(t, []string{ActionNext, ActionQuit}, d.menus[1])
	assert.Equal(t, []string{ActionGenerate, ActionBack, ActionQuit}, d.menus[3])
}

func TestRun_InvalidStepShowsErrorsAndRepeats(t *testing.T) {
	d := &scriptedDriver{}
	d.contact("")
	d.selects = append(d.selects, ActionNext)
	d.contact("Jane Doe")
	d.selects = append(d.selects, ActionQuit)

	f := newFixture(t, d)
	require.NoError(t, f.session.Run(context.Background()))

	output := f.out.String()
	assert.Contains(t, output, "PLEASE FIX")
	assert.Contains(t, output, "Name is required")
	assert.Equal(t, 2, bytes.Count(f.out.Bytes(), []byte("Step 1 of 3")))
}

func TestRun_GenerationFailureKeepsEditing(t *testing.T) {
	d := &scriptedDriver{}
	d.contact("Jane Doe")
	d.selects = append(d.selects, ActionNext)
	d.middle()
	d.selects = append(d.selects, ActionNext)
	d.inputs = append(d.inputs, "Go")
	d.selects = append(d.selects, ActionGenerate)
	// back on the final step with data intact
	d.inputs = append(d.inputs, "Go")
	d.selects = append(d.selects, ActionQuit)

	f := newFixture(t, d)
	f.failGen.Store(true)
	require.NoError(t, f.session.Run(context.Background()))

	output := f.out.String()
	assert.Contains(t, output, "Something went wrong generating your resume. Try again!")
	assert.NotContains(t, output, "RESUME PREVIEW")
	assert.Equal(t, 2, bytes.Count(f.out.Bytes(), []byte("Step 3 of 3")))
}

func TestRun_UpdateAndRestart(t *testing.T) {
	d := &scriptedDriver{}
	d.contact("Jane Doe")
	d.selects = append(d.selects, ActionNext)
	d.middle()
	d.selects = append(d.selects, ActionNext)
	d.inputs = append(d.inputs, "Go")
	d.selects = append(d.selects, ActionGenerate, ActionUpdate)
	d.inputs = append(d.inputs, "Go, Rust")
	d.selects = append(d.selects, ActionGenerate, ActionRestart)
	// restart lands on an empty first step
	d.contact("John Roe")
	d.selects = append(d.selects, ActionQuit)

	f := newFixture(t, d)
	require.NoError(t, f.session.Run(context.Background()))

	assert.Equal(t, int32(2), f.generations.Load())
	assert.Equal(t, "John Roe", f.session.ctrl.Draft().Name)
	assert.Empty(t, f.session.ctrl.Draft().Skills)
}

func TestRun_AbortEndsQuietly(t *testing.T) {
	d := &scriptedDriver{}
	d.contact("Jane Doe")
	// no menu answer scripted: the driver reports an abort

	f := newFixture(t, d)
	assert.NoError(t, f.session.Run(context.Background()))
}
