package generation

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by a Generate call whose result lost interest
// because a newer call was started.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// ProtocolError represents a 2xx response whose body is not a usable render.
type ProtocolError struct {
	Message string
	Cause   error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation protocol error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation protocol error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}
