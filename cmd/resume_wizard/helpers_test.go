package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-wizard/internal/export"
	"github.com/jonathan/resume-wizard/internal/generation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Draft fixtures shared by the command tests.
var (
	validDraftPath   = filepath.Join("..", "..", "testdata", "drafts", "valid.json")
	invalidDraftPath = filepath.Join("..", "..", "testdata", "drafts", "invalid.json")
	unknownDraftPath = filepath.Join("..", "..", "testdata", "drafts", "unknown_field.json")
)

// fakeService serves both endpoints and counts calls.
type fakeService struct {
	*httptest.Server
	generations atomic.Int32
	exports     atomic.Int32
	fail        atomic.Bool
	failGen     atomic.Bool
	failExport  atomic.Bool
	exportDelay atomic.Int64
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	svc := &fakeService{}
	svc.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if svc.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case generation.EndpointPath:
			svc.generations.Add(1)
			if svc.failGen.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"html":"<h1>Jane Doe</h1><h2>Skills</h2><ul><li>Go</li></ul>"}`))
		case export.EndpointPath:
			svc.exports.Add(1)
			time.Sleep(time.Duration(svc.exportDelay.Load()))
			if svc.failExport.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4\n%%EOF\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(svc.Close)
	return svc
}

// executeCommand runs the root command in-process with args and returns the
// combined output. Flags are reset first since cobra keeps them between runs.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
