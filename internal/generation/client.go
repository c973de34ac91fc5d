// Package generation submits a finished draft to the rendering service and
// keeps the latest rendered markup.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/resume-wizard/internal/fetch"
	"github.com/jonathan/resume-wizard/internal/metrics"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/rendering"
	"github.com/jonathan/resume-wizard/internal/types"
)

// EndpointPath is the rendering endpoint relative to the service base URL.
const EndpointPath = "/generate"

// Result is the rendered markup of the most recent successful generation.
type Result struct {
	Markup      string
	Sequence    uint64
	GeneratedAt time.Time
}

// IsZero reports whether no generation has succeeded yet.
func (r Result) IsZero() bool { return r.Sequence == 0 && r.Markup == "" }

// response is the wire body. "html" is canonical; "markdown" is a legacy
// alias that also carries HTML.
type response struct {
	HTML     *string `json:"html"`
	Markdown *string `json:"markdown"`
}

// Client talks to the generation endpoint. It is safe for concurrent use:
// only the most recent Generate call may change the stored Result.
type Client struct {
	endpoint string
	fetch    *fetch.Options
	sanitize bool
	notifier observability.Notifier
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	latest   uint64
	inFlight bool
	result   Result
}

// Option configures a Client.
type Option func(*Client)

// WithFetchOptions sets the transport options.
func WithFetchOptions(o *fetch.Options) Option {
	return func(c *Client) {
		if o != nil {
			c.fetch = o
		}
	}
}

// WithNotifier sets where failure notices go.
func WithNotifier(n observability.Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSanitize toggles markup sanitizing (on by default).
func WithSanitize(on bool) Option {
	return func(c *Client) { c.sanitize = on }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	endpoint, err := fetch.JoinURL(baseURL, EndpointPath)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: endpoint,
		fetch:    fetch.DefaultOptions(),
		sanitize: true,
		notifier: observability.DiscardNotifier,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(observability.Operation(metrics.OperationGenerate))
	return c, nil
}

// Endpoint returns the absolute endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Generating reports whether the most recent Generate call is still in flight.
func (c *Client) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Result returns the last successful render, or the zero Result.
func (c *Client) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Generate posts d to the rendering endpoint. A later call supersedes earlier
// ones: when an earlier call resolves after a later one started it returns
// ErrSuperseded and changes nothing. On failure the stored Result is kept, a
// Notice is raised and the error is returned so the caller can retry.
func (c *Client) Generate(ctx context.Context, d types.Draft) (Result, error) {
	c.mu.Lock()
	c.latest++
	seq := c.latest
	c.inFlight = true
	c.mu.Unlock()

	c.recorder.AddInFlight(metrics.OperationGenerate, 1)
	defer c.recorder.AddInFlight(metrics.OperationGenerate, -1)

	start := c.now()
	markup, err := c.do(ctx, d)
	elapsed := c.now().Sub(start)

	c.mu.Lock()
	if seq != c.latest {
		c.mu.Unlock()
		c.recorder.ObserveRequest(metrics.OperationGenerate, elapsed, metrics.OutcomeSuperseded)
		c.logger.Debug("generation superseded", observability.Sequence(seq))
		return Result{}, ErrSuperseded
	}
	c.inFlight = false
	if err != nil {
		c.mu.Unlock()
		c.recorder.ObserveRequest(metrics.OperationGenerate, elapsed, metrics.OutcomeFailure)
		attrs := []any{
			observability.Sequence(seq),
			observability.DurationMS(elapsed.Milliseconds()),
			observability.Err(err),
		}
		var se *fetch.StatusError
		if errors.As(err, &se) {
			attrs = append(attrs, observability.Status(se.StatusCode))
		}
		c.logger.Error("generation failed", attrs...)
		c.notifier.Notify(observability.Notice{
			Operation: metrics.OperationGenerate,
			Message:   "Something went wrong generating your resume. Try again!",
			Err:       err,
			At:        c.now(),
		})
		return Result{}, err
	}
	c.result = Result{Markup: markup, Sequence: seq, GeneratedAt: c.now()}
	result := c.result
	c.mu.Unlock()

	c.recorder.ObserveRequest(metrics.OperationGenerate, elapsed, metrics.OutcomeSuccess)
	c.logger.Info("generation succeeded",
		observability.Sequence(seq),
		observability.DurationMS(elapsed.Milliseconds()))
	return result, nil
}

func (c *Client) do(ctx context.Context, d types.Draft) (string, error) {
	resp, err := fetch.PostJSON(ctx, c.endpoint, d, c.fetch)
	if err != nil {
		return "", err
	}
	markup, err := DecodeMarkup(resp.Body)
	if err != nil {
		return "", err
	}
	if c.sanitize {
		markup = rendering.Sanitize(markup)
		if markup == "" {
			return "", &ProtocolError{Message: "markup is empty after sanitizing"}
		}
	}
	return markup, nil
}

// DecodeMarkup extracts the rendered markup from a response body, accepting
// either the "html" field or its legacy "markdown" alias. "html" wins when
// both are present and non-empty.
func DecodeMarkup(body []byte) (string, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return "", &ProtocolError{Message: "malformed JSON response", Cause: err}
	}
	switch {
	case r.HTML != nil && *r.HTML != "":
		return *r.HTML, nil
	case r.Markdown != nil && *r.Markdown != "":
		return *r.Markdown, nil
	default:
		return "", &ProtocolError{Message: `response has no "html" or "markdown" markup`}
	}
}
