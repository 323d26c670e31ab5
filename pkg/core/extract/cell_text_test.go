package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func cellSelection(t *testing.T, inner string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tr><td>" + inner + "</td></tr></table>"))
	if err != nil {
		t.Fatalf("parse cell HTML: %v", err)
	}
	return doc.Find("td").First()
}

func TestCellText(t *testing.T) {
	tests := []struct {
		name  string
		inner string
		want  string
	}{
		{"plain", "Click the button", "Click the button"},
		{"nested markup", "<p>Click <strong>the</strong> button</p>", "Click the button"},
		{"whitespace collapsed", "Click\n\t   the    button", "Click the button"},
		{"list rendered with markers", "<ul><li>open page</li><li>press enter</li></ul>", "- open page - press enter"},
		{"list mixed with text", "Steps: <ol><li>first</li><li>second</li></ol>", "Steps: - first - second"},
		{"empty", "", ""},
		{"only whitespace", "  \n\t ", ""},
	}
	for _, tt := range tests {
		if got := CellText(cellSelection(t, tt.inner)); got != tt.want {
			t.Errorf("%s: CellText = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCellText_NilSelection(t *testing.T) {
	if got := CellText(nil); got != "" {
		t.Errorf("CellText(nil) = %q, want empty", got)
	}
}

func TestRowCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td colspan="3">Header</td><td>plain</td><td colspan="bad">x</td><td colspan="0">y</td></tr></table>`))
	if err != nil {
		t.Fatalf("parse row HTML: %v", err)
	}

	cells := rowCells(doc.Find("tr").First())
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}

	wantSpans := []int{3, 1, 1, 1}
	wantTexts := []string{"Header", "plain", "x", "y"}
	for i, c := range cells {
		if c.ColSpan != wantSpans[i] {
			t.Errorf("cell %d: colspan %d, want %d", i, c.ColSpan, wantSpans[i])
		}
		if c.Text != wantTexts[i] {
			t.Errorf("cell %d: text %q, want %q", i, c.Text, wantTexts[i])
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  a   b  ", "a b"},
		{"a\nb\tc", "a b c"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseWhitespace(tt.in); got != tt.want {
			t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
