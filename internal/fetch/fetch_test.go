package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_Success(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"html":"<h1>ok</h1>"}`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"X-Session": "abc"}
	resp, err := PostJSON(context.Background(), server.URL, map[string]string{"name": "Jane"}, opts)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"html":"<h1>ok</h1>"}`, string(resp.Body))
	assert.Equal(t, map[string]any{"name": "Jane"}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))
	assert.Equal(t, "abc", gotHeaders.Get("X-Session"))
}

func TestPostJSON_InvalidURL(t *testing.T) {
	_, err := PostJSON(context.Background(), "not-a-valid-url", nil, nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestPostJSON_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer server.Close()

	resp, err := PostJSON(context.Background(), server.URL, struct{}{}, nil)
	require.Error(t, err)
	require.NotNil(t, resp) // Response is returned even on error
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.LessOrEqual(t, len(statusErr.Body), maxErrorBody+3)
	assert.Contains(t, err.Error(), "500")
}

func TestPostJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	_, err := PostJSON(context.Background(), server.URL, struct{}{}, opts)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "HTTP request failed")
}

func TestPostJSON_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PostJSON(ctx, server.URL, struct{}{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostJSON_UnencodablePayload(t *testing.T) {
	_, err := PostJSON(context.Background(), "http://localhost:1", map[string]any{"f": func() {}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode request body")
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8000", "/generate", "http://localhost:8000/generate"},
		{"http://localhost:8000/", "generate-pdf", "http://localhost:8000/generate-pdf"},
		{"https://api.example.com/v1", "/generate", "https://api.example.com/v1/generate"},
	}
	for _, tt := range tests {
		got, err := JoinURL(tt.base, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := JoinURL("localhost", "/generate")
	assert.Error(t, err)
}
