package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/types"
)

const noneOption = "(none)"

// Renderer walks a section's form on a PromptDriver and turns the answers
// into a patch for that section. The current Draft supplies defaults, so
// revisiting a step edits what is already there.
type Renderer struct {
	driver  PromptDriver
	catalog Catalog
}

// NewRenderer creates a Renderer.
func NewRenderer(driver PromptDriver, catalog Catalog) *Renderer {
	return &Renderer{driver: driver, catalog: catalog}
}

// Catalog returns the descriptors the renderer uses.
func (r *Renderer) Catalog() Catalog { return r.catalog }

// Fill prompts for one section and returns the resulting patch.
func (r *Renderer) Fill(ctx context.Context, section types.SectionID, d types.Draft) (draft.Patch, error) {
	form, ok := r.catalog.Form(section)
	if !ok {
		return nil, &DescriptorError{Message: fmt.Sprintf("no form for section %q", section)}
	}
	if form.IsList() {
		return r.fillList(ctx, form, d)
	}

	values, err := r.fillRecord(ctx, form.Fields, recordValues(section, d))
	if err != nil {
		return nil, err
	}
	return draft.FieldsPatch(section, values)
}

func (r *Renderer) fillList(ctx context.Context, form Form, d types.Draft) (draft.Patch, error) {
	existing := itemValues(form.Section, d)
	entries := make([]map[string]string, 0, len(existing)+1)

	for i, item := range existing {
		values, err := r.fillRecord(ctx, form.Fields, item)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", form.Item, i+1, err)
		}
		entries = append(entries, values)
	}

	if len(entries) == 0 && !form.Optional {
		values, err := r.fillRecord(ctx, form.Fields, nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, values)
	}

	for {
		msg := fmt.Sprintf("Add another %s?", form.Item)
		if len(entries) == 0 {
			msg = fmt.Sprintf("Add a %s?", form.Item)
		}
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: msg})
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		values, err := r.fillRecord(ctx, form.Fields, nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, values)
	}

	return listPatch(form.Section, entries)
}

func (r *Renderer) fillRecord(ctx context.Context, fields []Field, current map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		v, err := r.ask(ctx, field, current[field.Key])
		if err != nil {
			return nil, err
		}
		values[field.Key] = v
	}
	return values, nil
}

func (r *Renderer) ask(ctx context.Context, field Field, current string) (string, error) {
	help := field.Help
	if help == "" && field.Placeholder != "" {
		help = "e.g. " + field.Placeholder
	}

	switch field.Kind {
	case KindTextArea:
		v, err := r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Default: current, Help: help})
		return strings.TrimSpace(v), err
	case KindSelect:
		return r.askSelect(ctx, field, current, help)
	default:
		v, err := r.driver.Input(ctx, InputConfig{
			Message:   field.Label,
			Default:   current,
			Help:      help,
			Validator: fieldValidator(field),
		})
		return strings.TrimSpace(v), err
	}
}

func (r *Renderer) askSelect(ctx context.Context, field Field, current, help string) (string, error) {
	options := field.Options
	if !field.Required {
		options = append([]string{noneOption}, field.Options...)
	}
	def := 0
	for i, o := range options {
		if o == current {
			def = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: field.Label, Options: options, DefaultIndex: def, Help: help})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) || options[idx] == noneOption {
		return "", nil
	}
	return options[idx], nil
}

func fieldValidator(field Field) func(string) error {
	if !field.Required {
		return nil
	}
	if field.Kind == KindList {
		return func(s string) error {
			if len(types.DeriveSkills(s)) == 0 {
				return fmt.Errorf("enter at least one value, separated by commas")
			}
			return nil
		}
	}
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field.Label)
		}
		return nil
	}
}

func recordValues(section types.SectionID, d types.Draft) map[string]string {
	switch section {
	case types.SectionContact:
		c := d.ContactSection()
		return map[string]string{
			draft.KeyName:     c.Name,
			draft.KeyEmail:    c.Email,
			draft.KeyPhone:    c.Phone,
			draft.KeySummary:  c.Summary,
			draft.KeyLinkedIn: c.LinkedIn,
			draft.KeyGitHub:   c.GitHub,
			draft.KeyDevpost:  c.Devpost,
			draft.KeyCategory: c.Category,
		}
	case types.SectionSkills:
		return map[string]string{draft.KeySkills: types.JoinSkills(d.Skills)}
	}
	return nil
}

func itemValues(section types.SectionID, d types.Draft) []map[string]string {
	var out []map[string]string
	switch section {
	case types.SectionExperience:
		for _, it := range d.Experiences {
			out = append(out, map[string]string{draft.KeyTitle: it.Title, draft.KeyCompany: it.Company, draft.KeyDuration: it.Duration})
		}
	case types.SectionEducation:
		for _, it := range d.Education {
			out = append(out, map[string]string{draft.KeyDegree: it.Degree, draft.KeyInstitution: it.Institution, draft.KeyYear: it.Year})
		}
	case types.SectionProjects:
		for _, it := range d.Projects {
			out = append(out, map[string]string{draft.KeyTitle: it.Title, draft.KeyLink: it.Link})
		}
	}
	return out
}

func listPatch(section types.SectionID, entries []map[string]string) (draft.Patch, error) {
	switch section {
	case types.SectionExperience:
		items := make([]types.ExperienceItem, 0, len(entries))
		for _, e := range entries {
			it, err := draft.ExperienceItemFromFields(e)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return draft.ExperiencePatch{Experiences: items}, nil
	case types.SectionEducation:
		items := make([]types.EducationItem, 0, len(entries))
		for _, e := range entries {
			it, err := draft.EducationItemFromFields(e)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return draft.EducationPatch{Education: items}, nil
	case types.SectionProjects:
		items := make([]types.ProjectItem, 0, len(entries))
		for _, e := range entries {
			it, err := draft.ProjectItemFromFields(e)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return draft.ProjectsPatch{Projects: items}, nil
	}
	return nil, &DescriptorError{Message: fmt.Sprintf("section %q is not a list", section)}
}
