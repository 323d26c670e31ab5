package confluence

import (
	"strings"
	"testing"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain paragraph", "<p>Hello there</p>", "Hello there"},
		{"header to markdown", "<h2>Login</h2><p>body</p>", "# Login\n\nbody"},
		{"bold and italic", "<p><strong>bold</strong> and <em>soft</em></p>", "**bold** and *soft*"},
		{"link keeps target", `<p><a href="https://example.com">docs</a></p>`, "docs (https://example.com)"},
		{"entities decoded", "<p>a &amp; b</p>", "a & b"},
		{"unknown tags stripped", "<div><span>text</span></div>", "text"},
	}
	for _, tt := range tests {
		if got := NormalizeContent(tt.in); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeContent_List(t *testing.T) {
	got := NormalizeContent("<ul><li>first</li><li>second</li></ul>")
	if !strings.Contains(got, "- first") || !strings.Contains(got, "- second") {
		t.Errorf("list items should get markers, got %q", got)
	}
}

func TestNormalizeContent_Table(t *testing.T) {
	got := NormalizeContent("<table><tr><th>Step</th><th>Expected</th></tr><tr><td>open</td><td>shown</td></tr></table>")
	for _, want := range []string{"Step |", "Expected |", "open |", "shown |"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestNormalizeContent_CodeMacro(t *testing.T) {
	in := `<ac:structured-macro ac:name="code" ac:schema-version="1"><ac:plain-text-body><![CDATA[curl -X POST /login]]></ac:plain-text-body></ac:structured-macro>`
	got := NormalizeContent(in)
	if !strings.Contains(got, "curl -X POST /login") {
		t.Errorf("code body lost: %q", got)
	}
	if !strings.Contains(got, "```") {
		t.Errorf("code fence missing: %q", got)
	}
}

func TestNormalizeContent_AdmonitionMacros(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<ac:structured-macro ac:name="info"><ac:rich-text-body><p>heads up</p></ac:rich-text-body></ac:structured-macro>`, "[info]"},
		{`<ac:structured-macro ac:name="warning"><p>careful</p></ac:structured-macro>`, "[warning]"},
		{`<ac:structured-macro ac:name="note"><p>aside</p></ac:structured-macro>`, "[note]"},
		{`<ac:structured-macro ac:name="toc"><ac:parameter ac:name="maxLevel">2</ac:parameter></ac:structured-macro>`, "[Table of Contents]"},
	}
	for _, tt := range tests {
		if got := NormalizeContent(tt.in); !strings.Contains(got, tt.want) {
			t.Errorf("got %q, want it to contain %q", got, tt.want)
		}
	}
}

func TestNormalizeContent_UnknownMacroKeepsBody(t *testing.T) {
	in := `<ac:structured-macro ac:name="expand"><ac:rich-text-body><p>hidden details</p></ac:rich-text-body></ac:structured-macro>`
	got := NormalizeContent(in)
	if !strings.Contains(got, "hidden details") {
		t.Errorf("macro body lost: %q", got)
	}
	if strings.Contains(got, "ac:") {
		t.Errorf("macro markup leaked: %q", got)
	}
}

func TestNormalizeContent_CollapsesBlankRuns(t *testing.T) {
	got := NormalizeContent("<p>one</p><p></p><p></p><p>two</p>")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank runs not collapsed: %q", got)
	}
}
