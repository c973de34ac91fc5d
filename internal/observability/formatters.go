// Package observability provides formatted terminal output, user notices and
// structured log fields.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-wizard/internal/rendering"
	"github.com/jonathan/resume-wizard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes the human-readable views of a session
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintStep announces the active wizard step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(index, total int, name string) {
	fmt.Fprintf(p.out, "\nStep %d of %d: %s\n", index+1, total, name)
}

// PrintDraft outputs a summary of everything collected so far.
func (p *Printer) PrintDraft(d types.Draft) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", d.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", d.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", d.Phone))
	if d.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", d.Category))
	}
	for _, link := range []string{d.LinkedIn, d.GitHub, d.Devpost} {
		if link != "" {
			sb.WriteString(fmt.Sprintf("Link:     %s\n", link))
		}
	}
	sb.WriteString("\n")

	if len(d.Experiences) > 0 {
		sb.WriteString("Experience:\n")
		listItems(&sb, len(d.Experiences), func(i int) string {
			e := d.Experiences[i]
			return fmt.Sprintf("%s, %s (%s)", e.Title, e.Company, e.Duration)
		})
	}
	if len(d.Education) > 0 {
		sb.WriteString("Education:\n")
		listItems(&sb, len(d.Education), func(i int) string {
			e := d.Education[i]
			return fmt.Sprintf("%s, %s (%s)", e.Degree, e.Institution, e.Year)
		})
	}
	if len(d.Projects) > 0 {
		sb.WriteString("Projects:\n")
		listItems(&sb, len(d.Projects), func(i int) string {
			return d.Projects[i].Title
		})
	}
	if len(d.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", types.JoinSkills(d.Skills)))
	}

	p.printBox("DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

func listItems(sb *strings.Builder, n int, label func(int) string) {
	count := min(n, maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", label(i)))
	}
	if n > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", n-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintFieldErrors lists the fields that block a transition, sorted by field path.
func (p *Printer) PrintFieldErrors(title string, fieldErrors map[string]string) {
	if len(fieldErrors) == 0 {
		p.printBox(title, "✓ All fields valid")
		return
	}

	fields := make([]string, 0, len(fieldErrors))
	for f := range fieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("✗ %s: %s\n", f, fieldErrors[f]))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPreview outputs the text rendition of the generated resume.
func (p *Printer) PrintPreview(blocks []rendering.Block) {
	if len(blocks) == 0 {
		p.printBox("RESUME PREVIEW", "(empty)")
		return
	}

	var sb strings.Builder
	for i, b := range blocks {
		if b.Heading != "" {
			sb.WriteString(strings.ToUpper(b.Heading) + "\n")
		}
		for _, line := range b.Lines {
			sb.WriteString(line + "\n")
		}
		if i < len(blocks)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("RESUME PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExport reports a saved PDF. pages <= 0 means the page count is unknown.
func (p *Printer) PrintExport(path string, pages int) {
	content := fmt.Sprintf("Saved to: %s", path)
	if pages > 0 {
		content += fmt.Sprintf("\nPages:    %d", pages)
	}
	p.printBox("PDF DOWNLOADED", content)
}

// PrintNotice outputs a non-fatal failure banner.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNotice(n Notice) {
	fmt.Fprintf(p.out, "⚠️  %s\n", n.Message)
}
