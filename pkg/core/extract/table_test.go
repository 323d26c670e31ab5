package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func tableSelection(t *testing.T, tableHTML string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		t.Fatalf("parse test HTML: %v", err)
	}
	sel := doc.Find("table").First()
	if sel.Length() == 0 {
		t.Fatal("no table in test HTML")
	}
	return sel
}

func TestExtractTable_SectionFlip(t *testing.T) {
	sel := tableSelection(t, `<table>
		<tr><th>№</th><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td colspan="4">GENERAL</td></tr>
		<tr><td>1</td><td>Open the login page and sign in</td><td>Dashboard is shown</td><td>HIGH</td></tr>
		<tr><td colspan="4">CUSTOM</td></tr>
		<tr><td>2</td><td>Sign in with a partner account</td><td>Partner dashboard is shown</td><td>LOW</td></tr>
	</table>`)

	cases := NewTableExtractor(nil).ExtractTable(sel)
	if len(cases) != 2 {
		t.Fatalf("got %d testcases, want 2", len(cases))
	}
	if cases[0].TestGroup != GroupGeneral {
		t.Errorf("first testcase group = %s, want GENERAL", cases[0].TestGroup)
	}
	if cases[1].TestGroup != GroupCustom {
		t.Errorf("second testcase group = %s, want CUSTOM", cases[1].TestGroup)
	}
	if cases[0].OrderIndex != 0 || cases[1].OrderIndex != 1 {
		t.Errorf("order indices = %d, %d, want 0, 1", cases[0].OrderIndex, cases[1].OrderIndex)
	}
}

func TestExtractTable_DividerPropagation(t *testing.T) {
	sel := tableSelection(t, `<table>
		<tr><th>№</th><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td colspan="4">Login</td></tr>
		<tr><td>1</td><td>Enter valid credentials and submit</td><td>Session starts</td><td>HIGH</td></tr>
		<tr><td colspan="4">Logout</td></tr>
		<tr><td>2</td><td>Press the logout button in the header</td><td>Session ends</td><td>MEDIUM</td></tr>
	</table>`)

	cases := NewTableExtractor(nil).ExtractTable(sel)
	if len(cases) != 2 {
		t.Fatalf("got %d testcases, want 2", len(cases))
	}
	if cases[0].Functionality == nil || *cases[0].Functionality != "Login" {
		t.Errorf("first functionality = %v, want Login", cases[0].Functionality)
	}
	if cases[1].Functionality == nil || *cases[1].Functionality != "Logout" {
		t.Errorf("second functionality = %v, want Logout", cases[1].Functionality)
	}
}

func TestExtractTable_DividerLabelVerbatim(t *testing.T) {
	sel := tableSelection(t, `<table>
		<tr><th>№</th><th>STEP</th><th>EXPECTED RESULT</th><th>SCREENSHOT</th><th>PRIORITY</th><th>CONFIG</th><th>QA AUTO COVERAGE</th></tr>
		<tr><td colspan="7">Subscription - Windows</td></tr>
		<tr><td>1</td><td>Cancel the subscription from settings</td><td>Subscription ends at period close</td><td></td><td>HIGH</td><td></td><td></td></tr>
	</table>`)

	cases := NewTableExtractor(nil).ExtractTable(sel)
	if len(cases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(cases))
	}
	if cases[0].Functionality == nil || *cases[0].Functionality != "Subscription - Windows" {
		t.Errorf("functionality = %v, want verbatim divider label", cases[0].Functionality)
	}
}

func TestExtractTable_RejectsShortSteps(t *testing.T) {
	sel := tableSelection(t, `<table>
		<tr><th>№</th><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td>1</td><td>Click</td><td>Something happens</td><td>LOW</td></tr>
		<tr><td>2</td><td>Open the settings page from the menu</td><td>Settings are shown</td><td>LOW</td></tr>
	</table>`)

	cases := NewTableExtractor(nil).ExtractTable(sel)
	if len(cases) != 1 {
		t.Fatalf("got %d testcases, want 1 (short step dropped)", len(cases))
	}
	for _, tc := range cases {
		if !tc.Valid() {
			t.Errorf("invalid testcase in output: %q", tc.Step)
		}
	}
}

func TestExtractTable_CyrillicStepLength(t *testing.T) {
	// 10+ characters, well under 10 bytes per rune: byte-length checks
	// would wrongly pass much shorter Cyrillic steps.
	sel := tableSelection(t, `<table>
		<tr><th>№</th><th>Шаг</th><th>Ожидаемый результат</th><th>Приоритет</th></tr>
		<tr><td>1</td><td>Открыть страницу входа</td><td>Форма входа отображается</td><td>HIGH</td></tr>
		<tr><td>2</td><td>Нажать</td><td>Что-то происходит</td><td>LOW</td></tr>
	</table>`)

	cases := NewTableExtractor(nil).ExtractTable(sel)
	if len(cases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(cases))
	}
	if cases[0].Step != "Открыть страницу входа" {
		t.Errorf("step = %q", cases[0].Step)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  *Priority
	}{
		{"HIGH", priorityPtr(PriorityHigh)},
		{"highest", priorityPtr(PriorityHighest)},
		{"Priority: HIGHEST", priorityPtr(PriorityHighest)},
		{"medium", priorityPtr(PriorityMedium)},
		{"low", priorityPtr(PriorityLow)},
		{"CRITICAL", priorityPtr(PriorityCritical)},
		{"", nil},
		{"unknown", nil},
	}

	for _, tc := range tests {
		got := ParsePriority(tc.input)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("ParsePriority(%q) = %s, want nil", tc.input, *got)
		case tc.want != nil && got == nil:
			t.Errorf("ParsePriority(%q) = nil, want %s", tc.input, *tc.want)
		case tc.want != nil && got != nil && *got != *tc.want:
			t.Errorf("ParsePriority(%q) = %s, want %s", tc.input, *got, *tc.want)
		}
	}
}

func TestClassifyRow(t *testing.T) {
	kw := DefaultKeywords()
	tests := []struct {
		name  string
		cells []Cell
		want  RowKind
	}{
		{
			name:  "spanned GENERAL is a section header",
			cells: []Cell{{Text: "GENERAL", ColSpan: 4}},
			want:  RowSectionHeader,
		},
		{
			name:  "spanned label is a divider",
			cells: []Cell{{Text: "Billing", ColSpan: 4}},
			want:  RowDivider,
		},
		{
			name: "first-cell-only populated row is a divider",
			cells: []Cell{
				{Text: "Login flow", ColSpan: 1},
				{Text: "", ColSpan: 1},
				{Text: "", ColSpan: 1},
			},
			want: RowDivider,
		},
		{
			name: "regular data row is a testcase",
			cells: []Cell{
				{Text: "1", ColSpan: 1},
				{Text: "Open the page", ColSpan: 1},
				{Text: "Page opens", ColSpan: 1},
			},
			want: RowTestcase,
		},
		{
			name:  "narrow span does not mark a section",
			cells: []Cell{{Text: "GENERAL", ColSpan: 2}, {Text: "x", ColSpan: 1}},
			want:  RowTestcase,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyRow(tc.cells, kw); got != tc.want {
				t.Errorf("ClassifyRow = %s, want %s", got, tc.want)
			}
		})
	}
}
