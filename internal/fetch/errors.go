package fetch

import "fmt"

// Error represents a transport-level failure: the request never produced a response.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError represents a response with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch error for %s: HTTP status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch error for %s: HTTP status %d", e.URL, e.StatusCode)
}
