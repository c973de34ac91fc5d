// Package export downloads the PDF rendition of a draft and saves it locally.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-wizard/internal/fetch"
	"github.com/jonathan/resume-wizard/internal/metrics"
	"github.com/jonathan/resume-wizard/internal/observability"
	"github.com/jonathan/resume-wizard/internal/types"
)

// EndpointPath is the export endpoint relative to the service base URL.
const EndpointPath = "/generate-pdf"

// DefaultFileName is the name the downloaded file is saved under.
const DefaultFileName = "resume.pdf"

var pdfMagic = []byte("%PDF-")

// Client talks to the export endpoint. Exports are independent of generation
// and may run any number of times, concurrently.
type Client struct {
	endpoint string
	dir      string
	fileName string
	fetch    *fetch.Options
	notifier observability.Notifier
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	latest  uint64
	written uint64
}

// Option configures a Client.
type Option func(*Client)

// WithOutputDir sets the directory the PDF is saved to (default: working directory).
func WithOutputDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithFileName overrides DefaultFileName.
func WithFileName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.fileName = name
		}
	}
}

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

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	endpoint, err := fetch.JoinURL(baseURL, EndpointPath)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: endpoint,
		dir:      ".",
		fileName: DefaultFileName,
		fetch:    fetch.DefaultOptions(),
		notifier: observability.DiscardNotifier,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(observability.Operation(metrics.OperationExport))
	if strings.ContainsAny(c.fileName, `/\`) {
		return nil, &Error{Message: fmt.Sprintf("file name %q must not contain path separators", c.fileName)}
	}
	return c, nil
}

// Endpoint returns the absolute endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Path returns where the PDF is saved.
func (c *Client) Path() string { return filepath.Join(c.dir, c.fileName) }

// ExportPDF posts d to the export endpoint and saves the returned PDF at Path.
// The payload is staged in a temporary file that is always removed. If a newer
// export has already been saved, an older one that finishes later is discarded
// with ErrSuperseded. Failures raise a Notice and change nothing on disk.
func (c *Client) ExportPDF(ctx context.Context, d types.Draft) (string, error) {
	c.mu.Lock()
	c.latest++
	seq := c.latest
	c.mu.Unlock()

	c.recorder.AddInFlight(metrics.OperationExport, 1)
	defer c.recorder.AddInFlight(metrics.OperationExport, -1)

	start := c.now()
	path, err := c.export(ctx, d, seq)
	elapsed := c.now().Sub(start)

	switch {
	case errors.Is(err, ErrSuperseded):
		c.recorder.ObserveRequest(metrics.OperationExport, elapsed, metrics.OutcomeSuperseded)
		c.logger.Debug("export superseded", observability.Sequence(seq))
		return "", err
	case err != nil:
		c.recorder.ObserveRequest(metrics.OperationExport, elapsed, metrics.OutcomeFailure)
		attrs := []any{
			observability.Sequence(seq),
			observability.DurationMS(elapsed.Milliseconds()),
			observability.Err(err),
		}
		var se *fetch.StatusError
		if errors.As(err, &se) {
			attrs = append(attrs, observability.Status(se.StatusCode))
		}
		c.logger.Error("export failed", attrs...)
		c.notifier.Notify(observability.Notice{
			Operation: metrics.OperationExport,
			Message:   "Failed to download PDF",
			Err:       err,
			At:        c.now(),
		})
		return "", err
	}

	c.recorder.ObserveRequest(metrics.OperationExport, elapsed, metrics.OutcomeSuccess)
	c.logger.Info("pdf saved",
		observability.Sequence(seq),
		observability.Path(path),
		observability.DurationMS(elapsed.Milliseconds()))
	return path, nil
}

func (c *Client) export(ctx context.Context, d types.Draft, seq uint64) (string, error) {
	resp, err := fetch.PostJSON(ctx, c.endpoint, d, c.fetch)
	if err != nil {
		return "", err
	}
	if !isPDF(resp) {
		return "", &ContentError{ContentType: resp.ContentType, Size: len(resp.Body)}
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", &Error{Message: "failed to create output directory", Cause: err}
	}

	tmp, err := os.CreateTemp(c.dir, "."+c.fileName+".*.part")
	if err != nil {
		return "", &Error{Message: "failed to stage download", Cause: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(resp.Body); err != nil {
		_ = tmp.Close()
		return "", &Error{Message: "failed to write staged download", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &Error{Message: "failed to close staged download", Cause: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.written {
		return "", ErrSuperseded
	}
	dest := c.Path()
	if err := os.Rename(tmpName, dest); err != nil {
		return "", &Error{Message: "failed to save " + c.fileName, Cause: err}
	}
	c.written = seq
	return dest, nil
}

func isPDF(resp *fetch.Response) bool {
	if bytes.HasPrefix(resp.Body, pdfMagic) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(resp.ContentType), "application/pdf") && len(resp.Body) > 0
}
