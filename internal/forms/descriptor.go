// Package forms describes the input fields of each wizard section as data and
// renders them through a prompt driver, producing Draft patches.
package forms

import (
	_ "embed"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed fields.yaml
var defaultFields []byte

// Kind selects how a field is prompted.
type Kind string

const (
	KindText     Kind = "text"
	KindTextArea Kind = "textarea"
	KindEmail    Kind = "email"
	KindURL      Kind = "url"
	KindSelect   Kind = "select"
	KindList     Kind = "list"
)

// Field describes one input.
type Field struct {
	Key         string   `yaml:"key"`
	Label       string   `yaml:"label"`
	Kind        Kind     `yaml:"kind"`
	Required    bool     `yaml:"required"`
	Placeholder string   `yaml:"placeholder"`
	Help        string   `yaml:"help"`
	Options     []string `yaml:"options"`
}

// Form describes the inputs of one section. Forms with an Item name collect
// a sequence of entries; the others collect a single record.
type Form struct {
	Section  types.SectionID `yaml:"section"`
	Title    string          `yaml:"title"`
	Item     string          `yaml:"item"`
	Optional bool            `yaml:"optional"`
	Fields   []Field         `yaml:"fields"`
}

// IsList reports whether the form collects a sequence of entries.
func (f Form) IsList() bool { return f.Item != "" }

// Catalog holds the form of every section.
type Catalog struct {
	Sections []Form `yaml:"sections"`
}

// Form returns the form for a section.
func (c Catalog) Form(id types.SectionID) (Form, bool) {
	for _, f := range c.Sections {
		if f.Section == id {
			return f, true
		}
	}
	return Form{}, false
}

// DefaultCatalog returns the built-in field descriptors.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultFields)
}

// ParseCatalog decodes descriptors from YAML and checks every key belongs to its section.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, &DescriptorError{Message: "failed to parse field descriptors", Cause: err}
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that every section has exactly one form and that field keys
// are owned by the section they appear in.
func (c Catalog) Validate() error {
	seen := make(map[types.SectionID]bool, len(c.Sections))
	for _, f := range c.Sections {
		if _, err := types.ParseSectionID(string(f.Section)); err != nil {
			return &DescriptorError{Message: "invalid form", Cause: err}
		}
		if seen[f.Section] {
			return &DescriptorError{Message: fmt.Sprintf("section %q is described twice", f.Section)}
		}
		seen[f.Section] = true

		owned := make(map[string]bool)
		for _, k := range draft.OwnedKeys[f.Section] {
			owned[k] = true
		}
		for _, field := range f.Fields {
			if !owned[field.Key] {
				return &DescriptorError{Message: fmt.Sprintf("field %q does not belong to section %q", field.Key, f.Section)}
			}
			if field.Kind == KindSelect && len(field.Options) == 0 {
				return &DescriptorError{Message: fmt.Sprintf("select field %q has no options", field.Key)}
			}
		}
	}
	for _, id := range types.AllSections {
		if !seen[id] {
			return &DescriptorError{Message: fmt.Sprintf("section %q has no form", id)}
		}
	}
	return nil
}
