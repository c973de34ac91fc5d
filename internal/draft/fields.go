package draft

import (
	"sort"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Field keys understood by the field-map helpers. They match the JSON names of the Draft.
const (
	KeyName        = "name"
	KeyEmail       = "email"
	KeyPhone       = "phone"
	KeySummary     = "summary"
	KeyLinkedIn    = "linkedin"
	KeyGitHub      = "github"
	KeyDevpost     = "devpost"
	KeyCategory    = "category"
	KeyTitle       = "title"
	KeyCompany     = "company"
	KeyDuration    = "duration"
	KeyDegree      = "degree"
	KeyInstitution = "institution"
	KeyYear        = "year"
	KeyLink        = "link"
	KeySkills      = "skills"
)

// OwnedKeys lists the keys each section may write. For list sections these are
// the keys of a single item.
var OwnedKeys = map[types.SectionID][]string{
	types.SectionContact:    {KeyName, KeyEmail, KeyPhone, KeySummary, KeyLinkedIn, KeyGitHub, KeyDevpost, KeyCategory},
	types.SectionExperience: {KeyTitle, KeyCompany, KeyDuration},
	types.SectionEducation:  {KeyDegree, KeyInstitution, KeyYear},
	types.SectionProjects:   {KeyTitle, KeyLink},
	types.SectionSkills:     {KeySkills},
}

// FieldsPatch converts a key/value map produced by a data-driven form into a
// typed patch. Only the contact and skills sections can be patched this way;
// list sections are replaced whole via their typed patches.
func FieldsPatch(section types.SectionID, fields map[string]string) (Patch, error) {
	if err := checkOwned(section, fields); err != nil {
		return nil, err
	}

	switch section {
	case types.SectionContact:
		var p ContactPatch
		for key, value := range fields {
			v := value
			switch key {
			case KeyName:
				p.Name = &v
			case KeyEmail:
				p.Email = &v
			case KeyPhone:
				p.Phone = &v
			case KeySummary:
				p.Summary = &v
			case KeyLinkedIn:
				p.LinkedIn = &v
			case KeyGitHub:
				p.GitHub = &v
			case KeyDevpost:
				p.Devpost = &v
			case KeyCategory:
				p.Category = &v
			}
		}
		return p, nil
	case types.SectionSkills:
		return SkillsFromText(fields[KeySkills]), nil
	default:
		return nil, &InvariantError{
			Section: section,
			Message: "list sections must be patched with a whole-sequence replacement",
		}
	}
}

// ExperienceItemFromFields builds one experience entry from form values.
func ExperienceItemFromFields(fields map[string]string) (types.ExperienceItem, error) {
	if err := checkOwned(types.SectionExperience, fields); err != nil {
		return types.ExperienceItem{}, err
	}
	return types.ExperienceItem{
		Title:    fields[KeyTitle],
		Company:  fields[KeyCompany],
		Duration: fields[KeyDuration],
	}, nil
}

// EducationItemFromFields builds one education entry from form values.
func EducationItemFromFields(fields map[string]string) (types.EducationItem, error) {
	if err := checkOwned(types.SectionEducation, fields); err != nil {
		return types.EducationItem{}, err
	}
	return types.EducationItem{
		Degree:      fields[KeyDegree],
		Institution: fields[KeyInstitution],
		Year:        fields[KeyYear],
	}, nil
}

// ProjectItemFromFields builds one project entry from form values.
func ProjectItemFromFields(fields map[string]string) (types.ProjectItem, error) {
	if err := checkOwned(types.SectionProjects, fields); err != nil {
		return types.ProjectItem{}, err
	}
	return types.ProjectItem{
		Title: fields[KeyTitle],
		Link:  fields[KeyLink],
	}, nil
}

func checkOwned(section types.SectionID, fields map[string]string) error {
	owned, ok := OwnedKeys[section]
	if !ok {
		return &InvariantError{Section: section, Message: "unknown section"}
	}

	allowed := make(map[string]struct{}, len(owned))
	for _, k := range owned {
		allowed[k] = struct{}{}
	}

	var foreign []string
	for k := range fields {
		if _, ok := allowed[k]; !ok {
			foreign = append(foreign, k)
		}
	}
	if len(foreign) == 0 {
		return nil
	}
	sort.Strings(foreign)
	return &InvariantError{Section: section, Keys: foreign, Message: "patch touches keys outside its section"}
}
