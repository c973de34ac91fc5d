// Package types provides type definitions for the resume draft assembled by the wizard.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// SectionID identifies one topical slice of the Draft.
type SectionID string

const (
	SectionContact    SectionID = "contact"
	SectionExperience SectionID = "experience"
	SectionEducation  SectionID = "education"
	SectionProjects   SectionID = "projects"
	SectionSkills     SectionID = "skills"
)

// AllSections lists every section in canonical order.
var AllSections = []SectionID{
	SectionContact,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionSkills,
}

// ParseSectionID converts a string into a known SectionID.
func ParseSectionID(s string) (SectionID, error) {
	for _, id := range AllSections {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Categories accepted by the generation service for template selection.
var Categories = []string{"developer", "teacher", "doctor", "banker", "designer"}

// Draft is the accumulated, in-progress resume document. The JSON shape is the
// request body of both the generation and the export endpoints.
type Draft struct {
	// Contact section, flattened at the top level
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Summary  string `json:"summary"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Devpost  string `json:"devpost"`
	Category string `json:"category,omitempty"`

	Experiences []ExperienceItem `json:"experiences"`
	Education   []EducationItem  `json:"education"`
	Projects    []ProjectItem    `json:"projects"`
	Skills      []string         `json:"skills"`
}

// ExperienceItem is one position held.
type ExperienceItem struct {
	Title    string `json:"title" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Duration string `json:"duration" validate:"required"`
}

// EducationItem is one degree earned.
type EducationItem struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Year        string `json:"year" validate:"required"`
}

// ProjectItem is one showcased project. Link is optional.
type ProjectItem struct {
	Title string `json:"title" validate:"required"`
	Link  string `json:"link"`
}

// Contact is the contact section's slice of the Draft.
type Contact struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10"`
	Summary  string `json:"summary" validate:"required"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
	GitHub   string `json:"github" validate:"omitempty,url"`
	Devpost  string `json:"devpost" validate:"omitempty,url"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=developer teacher doctor banker designer"`
}

// Experience is the experience section's slice of the Draft.
type Experience struct {
	Experiences []ExperienceItem `json:"experiences" validate:"min=1,dive"`
}

// Education is the education section's slice of the Draft.
type Education struct {
	Education []EducationItem `json:"education" validate:"min=1,dive"`
}

// Projects is the projects section's slice of the Draft. The section is optional.
type Projects struct {
	Projects []ProjectItem `json:"projects" validate:"dive"`
}

// Skills is the skills section's slice of the Draft.
type Skills struct {
	Skills []string `json:"skills" validate:"min=1,dive,required"`
}

// NewDraft returns an empty Draft with every list section initialized, so the
// wire form always carries arrays rather than nulls.
func NewDraft() Draft {
	return Draft{
		Experiences: []ExperienceItem{},
		Education:   []EducationItem{},
		Projects:    []ProjectItem{},
		Skills:      []string{},
	}
}

// ContactSection extracts the contact slice.
func (d Draft) ContactSection() Contact {
	return Contact{
		Name:     d.Name,
		Email:    d.Email,
		Phone:    d.Phone,
		Summary:  d.Summary,
		LinkedIn: d.LinkedIn,
		GitHub:   d.GitHub,
		Devpost:  d.Devpost,
		Category: d.Category,
	}
}

// ExperienceSection extracts the experience slice.
func (d Draft) ExperienceSection() Experience {
	return Experience{Experiences: d.Experiences}
}

// EducationSection extracts the education slice.
func (d Draft) EducationSection() Education {
	return Education{Education: d.Education}
}

// ProjectsSection extracts the projects slice.
func (d Draft) ProjectsSection() Projects {
	return Projects{Projects: d.Projects}
}

// SkillsSection extracts the skills slice.
func (d Draft) SkillsSection() Skills {
	return Skills{Skills: d.Skills}
}

// WithContact returns a copy of d with the contact fields replaced by c.
// List sections keep their backing arrays.
func (d Draft) WithContact(c Contact) Draft {
	d.Name = c.Name
	d.Email = c.Email
	d.Phone = c.Phone
	d.Summary = c.Summary
	d.LinkedIn = c.LinkedIn
	d.GitHub = c.GitHub
	d.Devpost = c.Devpost
	d.Category = c.Category
	return d
}
