// Package schemas validates draft files against their JSON Schema before they
// are decoded.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-wizard/internal/types"
	rootschemas "github.com/jonathan/resume-wizard/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDraft validates draft file content against the built-in draft schema.
func ValidateDraft(data []byte) error {
	return validate(rootschemas.DraftFile,
		gojsonschema.NewStringLoader(rootschemas.Draft),
		gojsonschema.NewBytesLoader(data))
}

// LoadDraft reads a draft file, checks it against the draft schema and decodes
// it. Missing list sections decode as empty lists.
func LoadDraft(path string) (types.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Draft{}, fmt.Errorf("failed to read draft file: %w", err)
	}
	if err := ValidateDraft(data); err != nil {
		return types.Draft{}, err
	}

	d := types.NewDraft()
	if err := json.Unmarshal(data, &d); err != nil {
		return types.Draft{}, fmt.Errorf("failed to decode draft file: %w", err)
	}
	if d.Experiences == nil {
		d.Experiences = []types.ExperienceItem{}
	}
	if d.Education == nil {
		d.Education = []types.EducationItem{}
	}
	if d.Projects == nil {
		d.Projects = []types.ProjectItem{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	return d, nil
}

func validate(schemaPath string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
