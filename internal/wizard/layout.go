package wizard

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-wizard/internal/types"
	"gopkg.in/yaml.v3"
)

// Built-in layout names.
const (
	LayoutConsolidated = "consolidated"
	LayoutGranular     = "granular"
)

// Step is one stage of the wizard. A step displays and validates one or more sections.
type Step struct {
	Name     string            `yaml:"name"`
	Sections []types.SectionID `yaml:"sections"`
}

// Layout is the ordered sequence of steps a session walks through.
type Layout struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Consolidated is the three-step layout: contact, then experience, education
// and projects together, then skills.
func Consolidated() Layout {
	return Layout{
		Name: LayoutConsolidated,
		Steps: []Step{
			{Name: "Contact", Sections: []types.SectionID{types.SectionContact}},
			{Name: "Experience, Education & Projects", Sections: []types.SectionID{types.SectionExperience, types.SectionEducation, types.SectionProjects}},
			{Name: "Skills", Sections: []types.SectionID{types.SectionSkills}},
		},
	}
}

// Granular is the five-step layout with one section per step.
func Granular() Layout {
	return Layout{
		Name: LayoutGranular,
		Steps: []Step{
			{Name: "Contact", Sections: []types.SectionID{types.SectionContact}},
			{Name: "Experience", Sections: []types.SectionID{types.SectionExperience}},
			{Name: "Projects", Sections: []types.SectionID{types.SectionProjects}},
			{Name: "Skills", Sections: []types.SectionID{types.SectionSkills}},
			{Name: "Education", Sections: []types.SectionID{types.SectionEducation}},
		},
	}
}

// LayoutByName returns a built-in layout.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case "", LayoutConsolidated:
		return Consolidated(), nil
	case LayoutGranular:
		return Granular(), nil
	default:
		return Layout{}, &LayoutError{Message: fmt.Sprintf("unknown layout %q (want %s or %s)", name, LayoutConsolidated, LayoutGranular)}
	}
}

// LoadLayout reads a custom layout from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, &LayoutError{Message: fmt.Sprintf("failed to read layout file %s", path), Cause: err}
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, &LayoutError{Message: "failed to parse layout YAML", Cause: err}
	}
	if l.Name == "" {
		l.Name = "custom"
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the layout has steps and covers every section exactly once.
func (l Layout) Validate() error {
	if len(l.Steps) == 0 {
		return &LayoutError{Message: "layout has no steps"}
	}

	seen := make(map[types.SectionID]string, len(types.AllSections))
	for i, step := range l.Steps {
		if len(step.Sections) == 0 {
			return &LayoutError{Message: fmt.Sprintf("step %d (%s) has no sections", i+1, step.Name)}
		}
		for _, id := range step.Sections {
			if _, err := types.ParseSectionID(string(id)); err != nil {
				return &LayoutError{Message: fmt.Sprintf("step %d (%s)", i+1, step.Name), Cause: err}
			}
			if prev, dup := seen[id]; dup {
				return &LayoutError{Message: fmt.Sprintf("section %q appears in both %q and %q", id, prev, step.Name)}
			}
			seen[id] = step.Name
		}
	}

	for _, id := range types.AllSections {
		if _, ok := seen[id]; !ok {
			return &LayoutError{Message: fmt.Sprintf("section %q is not covered by any step", id)}
		}
	}
	return nil
}
