package draft

import (
	"slices"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Patch is a message emitted by a section form and consumed by the Store.
// Each patch owns exactly one section and touches no other keys.
type Patch interface {
	Section() types.SectionID
	apply(d types.Draft) types.Draft
}

// ContactPatch updates any subset of the contact fields. Nil fields are left as they are.
type ContactPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Summary  *string
	LinkedIn *string
	GitHub   *string
	Devpost  *string
	Category *string
}

// Section implements Patch.
func (ContactPatch) Section() types.SectionID { return types.SectionContact }

func (p ContactPatch) apply(d types.Draft) types.Draft {
	c := d.ContactSection()
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Summary, p.Summary)
	set(&c.LinkedIn, p.LinkedIn)
	set(&c.GitHub, p.GitHub)
	set(&c.Devpost, p.Devpost)
	set(&c.Category, p.Category)
	return d.WithContact(c)
}

// ContactFrom builds a patch that replaces the whole contact section.
func ContactFrom(c types.Contact) ContactPatch {
	return ContactPatch{
		Name:     &c.Name,
		Email:    &c.Email,
		Phone:    &c.Phone,
		Summary:  &c.Summary,
		LinkedIn: &c.LinkedIn,
		GitHub:   &c.GitHub,
		Devpost:  &c.Devpost,
		Category: &c.Category,
	}
}

// ExperiencePatch replaces the experience sequence.
type ExperiencePatch struct {
	Experiences []types.ExperienceItem
}

// Section implements Patch.
func (ExperiencePatch) Section() types.SectionID { return types.SectionExperience }

func (p ExperiencePatch) apply(d types.Draft) types.Draft {
	d.Experiences = cloneOrEmpty(p.Experiences)
	return d
}

// EducationPatch replaces the education sequence.
type EducationPatch struct {
	Education []types.EducationItem
}

// Section implements Patch.
func (EducationPatch) Section() types.SectionID { return types.SectionEducation }

func (p EducationPatch) apply(d types.Draft) types.Draft {
	d.Education = cloneOrEmpty(p.Education)
	return d
}

// ProjectsPatch replaces the projects sequence.
type ProjectsPatch struct {
	Projects []types.ProjectItem
}

// Section implements Patch.
func (ProjectsPatch) Section() types.SectionID { return types.SectionProjects }

func (p ProjectsPatch) apply(d types.Draft) types.Draft {
	d.Projects = cloneOrEmpty(p.Projects)
	return d
}

// SkillsPatch replaces the skill list.
type SkillsPatch struct {
	Skills []string
}

// SkillsFromText derives the skill list from free-text comma-separated input.
func SkillsFromText(input string) SkillsPatch {
	return SkillsPatch{Skills: types.DeriveSkills(input)}
}

// Section implements Patch.
func (SkillsPatch) Section() types.SectionID { return types.SectionSkills }

func (p SkillsPatch) apply(d types.Draft) types.Draft {
	d.Skills = cloneOrEmpty(p.Skills)
	return d
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// cloneOrEmpty copies the caller's slice so later caller-side edits never leak
// into the Draft.
func cloneOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return slices.Clone(items)
}
