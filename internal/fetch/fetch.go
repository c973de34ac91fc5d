// Package fetch provides the JSON-over-HTTP transport shared by the generation and export clients.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout. Generation runs several
// model calls on the server, so it is generous.
const DefaultTimeout = 120 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "ResumeWizard/1.0"

// maxErrorBody caps how much of a failed response body is kept for error messages.
const maxErrorBody = 512

// Response holds the raw outcome of a request.
type Response struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Options configures the request behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for requests.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// JoinURL appends an endpoint path to a base URL.
func JoinURL(base, path string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: base, Message: "invalid base URL", Cause: err}
	}
	return parsed.JoinPath(strings.TrimPrefix(path, "/")).String(), nil
}

// PostJSON sends payload as a JSON body and returns the raw response.
// A non-2xx status yields the response together with a *StatusError.
func PostJSON(ctx context.Context, urlStr string, payload any, opts *Options) (*Response, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to encode request body",
			Cause:   err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Response{
		URL:         urlStr,
		Body:        respBody,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(respBody)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody] + "..."
		}
		return result, &StatusError{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(snippet),
		}
	}

	return result, nil
}
