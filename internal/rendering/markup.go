// Package rendering post-processes markup returned by the generation service:
// sanitizing it for display and flattening it into a plain-text preview.
package rendering

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and anything else a resume does not
// need, keeping headings, lists, links and inline styles.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupPolicy().Sanitize(trimmed))
}

func markupPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("style").Globally()
		p.AllowStyles("text-align", "font-size", "font-weight", "margin-top", "margin-bottom", "color", "text-decoration").Globally()
		p.AllowURLSchemes("mailto", "http", "https")
		policy = p
	})
	return policy
}

// Block is one rendered section of the document.
type Block struct {
	Heading string
	Lines   []string
}

// Preview flattens markup into a readable plain-text outline.
func Preview(markup string) ([]Block, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &Error{Message: "failed to parse markup", Cause: err}
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []Block
	current := Block{}
	flush := func() {
		if current.Heading != "" || len(current.Lines) > 0 {
			blocks = append(blocks, current)
		}
		current = Block{}
	}

	// Bare text and inline elements between blocks form one line.
	var inline strings.Builder
	flushInline := func() {
		if text := cleanWhitespace(inline.String()); text != "" {
			current.Lines = append(current.Lines, strings.Split(text, "\n")...)
		}
		inline.Reset()
	}

	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text" || inlineElements[name]:
			inline.WriteString(s.Text())
			return
		case name == "#comment":
			return
		case name == "br":
			flushInline()
			return
		}
		flushInline()

		text := cleanWhitespace(s.Text())
		if text == "" {
			return
		}
		switch {
		case name == "h1" || name == "h2":
			flush()
			current.Heading = text
		case isSectionLabel(s):
			flush()
			current.Heading = text
		case name == "ul" || name == "ol":
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				if t := cleanWhitespace(li.Text()); t != "" {
					current.Lines = append(current.Lines, "• "+t)
				}
			})
		default:
			current.Lines = append(current.Lines, strings.Split(text, "\n")...)
		}
	})
	flushInline()
	flush()

	return blocks, nil
}

var inlineElements = map[string]bool{
	"a": true, "b": true, "strong": true, "em": true, "i": true,
	"u": true, "span": true, "code": true, "small": true,
}

// PlainText renders Preview output as a single string.
func PlainText(markup string) (string, error) {
	blocks, err := Preview(markup)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		if b.Heading != "" {
			sb.WriteString(b.Heading)
			sb.WriteString("\n")
		}
		for _, line := range b.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// isSectionLabel detects the "<p><strong>SUMMARY</strong></p>" headings the
// generation templates emit: a paragraph holding only upper-case bold text.
func isSectionLabel(s *goquery.Selection) bool {
	if goquery.NodeName(s) != "p" {
		return false
	}
	strong := s.ChildrenFiltered("strong, b")
	if strong.Length() != 1 {
		return false
	}
	text := cleanWhitespace(s.Text())
	return text == cleanWhitespace(strong.Text()) && text == strings.ToUpper(text)
}

// cleanWhitespace normalizes whitespace in text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
