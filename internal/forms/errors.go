package forms

import (
	"errors"
	"fmt"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("forms: aborted")

// DescriptorError represents an invalid field descriptor file
type DescriptorError struct {
	Message string
	Cause   error
}

func (e *DescriptorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("descriptor error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("descriptor error: %s", e.Message)
}

func (e *DescriptorError) Unwrap() error {
	return e.Cause
}
