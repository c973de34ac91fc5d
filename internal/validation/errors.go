package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-wizard/internal/types"
)

// ValidationError reports every failing field of the sections that were checked.
//
//nolint:revive // validation.ValidationError reads fine at call sites
type ValidationError struct {
	Sections    []types.SectionID
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, field := range e.Fields() {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, field, e.FieldErrors[field]))
	}
	return sb.String()
}

// Fields returns the failing field paths in sorted order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
