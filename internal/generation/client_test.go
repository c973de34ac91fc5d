package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-wizard/internal/fetch"
	"github.com/jonathan/resume-wizard/internal/metrics"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []metrics.Outcome
	inFlight int
}

func (f *fakeRecorder) ObserveRequest(_ string, _ time.Duration, o metrics.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, o)
}

func (f *fakeRecorder) AddInFlight(_ string, delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight += delta
}

func testDraft(name string) types.Draft {
	d := types.NewDraft().WithContact(types.Contact{Name: name, Email: "jane@x.com", Phone: "1234567890", Summary: "Engineer"})
	d.Experiences = []types.ExperienceItem{{Title: "Engineer", Company: "Acme", Duration: "2y"}}
	d.Education = []types.EducationItem{{Degree: "BS", Institution: "State U", Year: "2019"}}
	d.Skills = []string{"Go"}
	return d
}

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("not a url")
	require.Error(t, err)
}

func TestGenerate_Success(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"html":"<h1><strong>Jane Doe</strong></h1>"}`))
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)
	assert.True(t, c.Result().IsZero())

	res, err := c.Generate(context.Background(), testDraft("Jane Doe"))
	require.NoError(t, err)
	assert.Equal(t, "<h1><strong>Jane Doe</strong></h1>", res.Markup)
	assert.Equal(t, uint64(1), res.Sequence)
	assert.Equal(t, res, c.Result())
	assert.False(t, c.Generating())

	// request body carries the flattened draft
	assert.Equal(t, "Jane Doe", got["name"])
	assert.Len(t, got["experiences"], 1)
	assert.Equal(t, []any{"Go"}, got["skills"])
}

func TestGenerate_ReplacesResultWholesale(t *testing.T) {
	var n atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := n.Add(1)
		_, _ = fmt.Fprintf(w, `{"html":"<p>render %d</p>"}`, i)
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)

	assert.Equal(t, "<p>render 2</p>", c.Result().Markup)
}

func TestDecodeMarkup(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{name: "html field", body: `{"html":"<p>a</p>"}`, want: "<p>a</p>"},
		{name: "legacy markdown alias", body: `{"markdown":"<p>b</p>"}`, want: "<p>b</p>"},
		{name: "html wins", body: `{"html":"<p>a</p>","markdown":"<p>b</p>"}`, want: "<p>a</p>"},
		{name: "empty html falls back", body: `{"html":"","markdown":"<p>b</p>"}`, want: "<p>b</p>"},
		{name: "missing markup", body: `{"detail":"ok"}`, wantErr: "no \"html\""},
		{name: "malformed", body: `<html>`, wantErr: "malformed JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMarkup([]byte(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				var pe *ProtocolError
				assert.ErrorAs(t, err, &pe)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_FailureKeepsPriorResult(t *testing.T) {
	fail := atomic.Bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"html":"<p>first</p>"}`))
	}))
	defer server.Close()

	notices := &observability.NoticeLog{}
	rec := &fakeRecorder{}
	c, err := New(server.URL, WithNotifier(notices), WithRecorder(rec))
	require.NoError(t, err)

	prior, err := c.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)

	fail.Store(true)
	_, err = c.Generate(context.Background(), testDraft("Jane"))
	require.Error(t, err)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	assert.Equal(t, prior, c.Result())
	assert.False(t, c.Generating())

	got := notices.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, metrics.OperationGenerate, got[0].Operation)
	assert.ErrorIs(t, got[0].Err, err)

	// retry without re-entering data
	fail.Store(false)
	_, err = c.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)

	assert.Equal(t, []metrics.Outcome{metrics.OutcomeSuccess, metrics.OutcomeFailure, metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 0, rec.inFlight)
}

func TestGenerate_MalformedResponse(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `not json`)
	notices := &observability.NoticeLog{}
	c, err := New(server.URL, WithNotifier(notices))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), testDraft("Jane"))
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.True(t, c.Result().IsZero())
	assert.Len(t, notices.Drain(), 1)
}

func TestGenerate_TransportFailure(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{}`)
	url := server.URL
	server.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), testDraft("Jane"))
	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.False(t, c.Generating())
}

func TestGenerate_SanitizesMarkup(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"html":"<h1>Jane</h1><script>alert(1)</script>"}`)

	c, err := New(server.URL)
	require.NoError(t, err)
	res, err := c.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Jane</h1>", res.Markup)

	raw, err := New(server.URL, WithSanitize(false))
	require.NoError(t, err)
	res, err = raw.Generate(context.Background(), testDraft("Jane"))
	require.NoError(t, err)
	assert.Contains(t, res.Markup, "<script>")
}

func TestGenerate_LatestCallWins(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d types.Draft
		_ = json.NewDecoder(r.Body).Decode(&d)
		if d.Name == "first" {
			close(firstArrived)
			<-releaseFirst
		}
		_, _ = fmt.Fprintf(w, `{"html":"<p>%s</p>"}`, d.Name)
	}))
	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background(), testDraft("first"))
		firstErr <- err
	}()

	<-firstArrived
	assert.True(t, c.Generating())

	res, err := c.Generate(context.Background(), testDraft("second"))
	require.NoError(t, err)
	assert.Equal(t, "<p>second</p>", res.Markup)
	assert.False(t, c.Generating())

	close(releaseFirst)
	assert.ErrorIs(t, <-firstErr, ErrSuperseded)
	assert.Equal(t, "<p>second</p>", c.Result().Markup, "stale response must not overwrite")
}

func TestGenerate_FailureLogsOperationAndStatus(t *testing.T) {
	server := jsonServer(t, http.StatusBadGateway, `{}`)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	c, err := New(server.URL, WithLogger(logger))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), testDraft("Jane"))
	require.Error(t, err)

	assert.Contains(t, logs.String(), "generation failed")
	assert.Contains(t, logs.String(), "operation=generate")
	assert.Contains(t, logs.String(), "status=502")
}
