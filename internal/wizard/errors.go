package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrAtFinalStep is returned by Advance on the terminal step.
	ErrAtFinalStep = errors.New("already at the final step")
	// ErrNotAtFinalStep is returned by Submit anywhere but the terminal step.
	ErrNotAtFinalStep = errors.New("submit is only available at the final step")
	// ErrPreviewing is returned by editing operations while a render is being previewed.
	ErrPreviewing = errors.New("session is previewing; go back to editing first")
	// ErrNotPreviewing is returned by BackToEditing while already editing.
	ErrNotPreviewing = errors.New("session is not previewing")
)

// LayoutError represents an invalid or unreadable step layout
type LayoutError struct {
	Message string
	Cause   error
}

func (e *LayoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("layout error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("layout error: %s", e.Message)
}

func (e *LayoutError) Unwrap() error {
	return e.Cause
}
