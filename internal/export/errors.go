package export

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by an export that finished after a newer export was already saved.
var ErrSuperseded = errors.New("export superseded by a newer download")

// Error represents a local failure saving the download
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ContentError represents a 2xx response that is not a PDF
type ContentError struct {
	ContentType string
	Size        int
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("export error: expected a PDF, got %q (%d bytes)", e.ContentType, e.Size)
}
