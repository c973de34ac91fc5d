package rendering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `
<h1 style="text-align:center;font-size:32px;margin-bottom:4px;">
  <strong>Jane Doe</strong>
</h1>
<p style="text-align:center;">1234567890 | <a href="mailto:jane@x.com">jane@x.com</a></p>

<p style="font-size:18px;font-weight:700;margin-top:18px;"><strong>SUMMARY</strong></p>
<p>Backend engineer focused on reliable systems.</p>

<p style="font-size:18px;font-weight:700;margin-top:18px;"><strong>WORK EXPERIENCE</strong></p>
<h3><em>Acme | Engineer (2020-2024)</em></h3>
<ul><li>Built the billing pipeline.</li><li>Cut deploy time in half.</li></ul>

<p style="font-size:18px;font-weight:700;margin-top:18px;"><strong>SKILLS</strong></p>
<p>Go, SQL</p>
`

func TestSanitize_RemovesScripts(t *testing.T) {
	out := Sanitize(`<h1><strong>Jane Doe</strong></h1><script>alert(1)</script>`)
	assert.Equal(t, "<h1><strong>Jane Doe</strong></h1>", out)
}

func TestSanitize_RemovesEventHandlers(t *testing.T) {
	out := Sanitize(`<p onclick="steal()">Hi</p>`)
	assert.Equal(t, "<p>Hi</p>", out)
}

func TestSanitize_KeepsLayoutAndLinks(t *testing.T) {
	out := Sanitize(sampleMarkup)
	assert.Contains(t, out, "text-align")
	assert.Contains(t, out, `href="mailto:jane@x.com"`)
	assert.Contains(t, out, "<li>Built the billing pipeline.</li>")
}

func TestSanitize_Empty(t *testing.T) {
	assert.Equal(t, "", Sanitize("   "))
}

func TestPreview(t *testing.T) {
	blocks, err := Preview(sampleMarkup)
	require.NoError(t, err)

	want := []Block{
		{Heading: "Jane Doe", Lines: []string{"1234567890 | jane@x.com"}},
		{Heading: "SUMMARY", Lines: []string{"Backend engineer focused on reliable systems."}},
		{Heading: "WORK EXPERIENCE", Lines: []string{
			"Acme | Engineer (2020-2024)",
			"• Built the billing pipeline.",
			"• Cut deploy time in half.",
		}},
		{Heading: "SKILLS", Lines: []string{"Go, SQL"}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("Preview() mismatch (-want +got):\n%s", diff)
	}
}

func TestPreview_KeepsBareText(t *testing.T) {
	markup := `<h2>Projects</h2><strong>Wizard</strong> | https://github.com/x/w<ul><li>Built it.</li></ul>` +
		`Remote<br>Full time<!-- note -->`

	blocks, err := Preview(markup)
	require.NoError(t, err)

	want := []Block{
		{Heading: "Projects", Lines: []string{
			"Wizard | https://github.com/x/w",
			"• Built it.",
			"Remote",
			"Full time",
		}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("Preview() mismatch (-want +got):\n%s", diff)
	}
}

func TestPreview_Empty(t *testing.T) {
	blocks, err := Preview("")
	require.NoError(t, err)
	assert.Nil(t, blocks)
}

func TestPlainText(t *testing.T) {
	text, err := PlainText(`<h1>Jane Doe</h1><p>Engineer</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nEngineer\n", text)
}
