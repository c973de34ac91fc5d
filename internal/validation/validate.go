// Package validation provides the per-section checks that gate wizard transitions.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-wizard/internal/types"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// messages maps "<field>.<tag>" to the user-facing message for that failure.
var messages = map[string]string{
	"name.required":        "Name is required",
	"email.required":       "Email is required",
	"email.email":          "Invalid email",
	"phone.required":       "Phone is required",
	"phone.min":            "Phone must be at least 10 digits",
	"summary.required":     "Summary is required",
	"linkedin.url":         "Invalid LinkedIn URL",
	"github.url":           "Invalid GitHub URL",
	"devpost.url":          "Invalid Devpost URL",
	"category.oneof":       "Category must be one of " + strings.Join(types.Categories, ", "),
	"experiences.min":      "At least one experience entry is required",
	"education.min":        "At least one education entry is required",
	"title.required":       "Title is required",
	"company.required":     "Company is required",
	"duration.required":    "Duration is required",
	"degree.required":      "Degree is required",
	"institution.required": "Institution is required",
	"year.required":        "Year is required",
	"skills.min":           "Please enter at least one skill",
	"skills.required":      "Skill cannot be empty",
}

// Result is the outcome of validating one or more sections.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// OK returns a passing Result.
func OK() Result {
	return Result{Valid: true, FieldErrors: map[string]string{}}
}

// Merge combines results; the merged result is valid only if all inputs are.
func Merge(results ...Result) Result {
	merged := OK()
	for _, r := range results {
		if !r.Valid {
			merged.Valid = false
		}
		for field, msg := range r.FieldErrors {
			merged.FieldErrors[field] = msg
		}
	}
	return merged
}

// Err converts a failing Result into a *ValidationError, or nil when valid.
func (r Result) Err(sections ...types.SectionID) error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Sections: sections, FieldErrors: r.FieldErrors}
}

// ValidateContact checks name, email, phone and summary are present and the
// optional profile links are well-formed URLs.
func ValidateContact(c types.Contact) Result {
	return check(c)
}

// ValidateExperience requires at least one fully populated experience entry.
func ValidateExperience(e types.Experience) Result {
	return check(e)
}

// ValidateEducation requires at least one fully populated education entry.
func ValidateEducation(e types.Education) Result {
	return check(e)
}

// ValidateProjects validates every present project; an empty list is fine.
func ValidateProjects(p types.Projects) Result {
	return check(p)
}

// ValidateSkills requires at least one non-empty skill.
func ValidateSkills(s types.Skills) Result {
	return check(s)
}

// Section validates the slice of d owned by the given section.
func Section(id types.SectionID, d types.Draft) Result {
	switch id {
	case types.SectionContact:
		return ValidateContact(d.ContactSection())
	case types.SectionExperience:
		return ValidateExperience(d.ExperienceSection())
	case types.SectionEducation:
		return ValidateEducation(d.EducationSection())
	case types.SectionProjects:
		return ValidateProjects(d.ProjectsSection())
	case types.SectionSkills:
		return ValidateSkills(d.SkillsSection())
	default:
		return Result{FieldErrors: map[string]string{"(root)": fmt.Sprintf("unknown section %q", id)}}
	}
}

// Sections validates several sections of d and merges the results.
func Sections(ids []types.SectionID, d types.Draft) Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, Section(id, d))
	}
	return Merge(results...)
}

// All validates every section of d.
func All(d types.Draft) Result {
	return Sections(types.AllSections, d)
}

func check(section any) Result {
	err := instance().Struct(section)
	if err == nil {
		return OK()
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{FieldErrors: map[string]string{"(root)": err.Error()}}
	}

	res := Result{FieldErrors: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		res.FieldErrors[fieldPath(fe)] = message(fe)
	}
	return res
}

// fieldPath drops the struct name from the namespace: "Experience.experiences[0].title"
// becomes "experiences[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}
