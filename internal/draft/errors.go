package draft

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-wizard/internal/types"
)

// InvariantError is a programmer error: a patch that does not respect section
// ownership. It is never a user-facing condition.
type InvariantError struct {
	Section types.SectionID
	Keys    []string
	Message string
}

func (e *InvariantError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("draft invariant violated in section %q: %s: %s", e.Section, e.Message, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("draft invariant violated in section %q: %s", e.Section, e.Message)
}
