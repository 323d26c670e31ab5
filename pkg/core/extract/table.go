package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableExtractor turns one testcase table into an ordered list of
// RawTestCase records, tracking section and functionality state row by row.
type TableExtractor struct {
	keywords *Keywords
}

// NewTableExtractor creates an extractor around a keyword set.
// Pass nil to use the defaults.
func NewTableExtractor(kw *Keywords) *TableExtractor {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return &TableExtractor{keywords: kw}
}

// ExtractTable parses a <table> selection. The first row supplies the schema;
// every subsequent row is classified and either mutates the parse state
// (section markers, dividers) or yields a testcase. Order indices are dense
// and table-local, starting at 0: cross-table renumbering belongs to the
// merge engine.
func (e *TableExtractor) ExtractTable(table *goquery.Selection) []RawTestCase {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}

	headers := headerTexts(rows.First())
	schema := DetectSchema(headers, e.keywords)

	var testcases []RawTestCase
	state := NewParseState()

	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		cells := rowCells(row)
		if len(cells) == 0 {
			return
		}

		switch ClassifyRow(cells, e.keywords) {
		case RowSectionHeader:
			section, functionality := sectionInfo(cells, e.keywords)
			state.Section = section
			if functionality != nil {
				state.Functionality = functionality
			}
		case RowDivider:
			if label := dividerLabel(cells); label != "" {
				state.Functionality = strPtr(label)
			}
		case RowTestcase:
			if tc, ok := e.parseTestcaseRow(cells, schema, state); ok {
				tc.OrderIndex = len(testcases)
				testcases = append(testcases, tc)
			}
		}
	})

	return testcases
}

// parseTestcaseRow maps a data row through the schema. It rejects rows with
// no usable step, and rows with an empty expected result whose step reads
// like a mis-classified divider label.
func (e *TableExtractor) parseTestcaseRow(cells []Cell, schema TableSchema, state ParseState) (RawTestCase, bool) {
	if len(cells) < 2 {
		return RawTestCase{}, false
	}

	step := trimSpace(cellContent(cells, schema, FieldStep))
	if runeLen(step) < MinStepLength {
		return RawTestCase{}, false
	}

	expected := trimSpace(cellContent(cells, schema, FieldExpected))
	if expected == "" && looksLikeDividerText(step) {
		return RawTestCase{}, false
	}

	tc := RawTestCase{
		Step:           step,
		ExpectedResult: expected,
		Priority:       ParsePriority(cellContent(cells, schema, FieldPriority)),
		TestGroup:      state.Section,
		Functionality:  state.Functionality,
		Config:         optional(cellContent(cells, schema, FieldConfig)),
		QAAutoCoverage: optional(cellContent(cells, schema, FieldQACoverage)),
		Screenshot:     optional(cellContent(cells, schema, FieldScreenshot)),
	}
	return tc, true
}

// cellContent reads the already-extracted text of the cell mapped to field.
// Unmapped fields and out-of-range indices yield "".
func cellContent(cells []Cell, schema TableSchema, field Field) string {
	idx, ok := schema.ColumnMapping[field]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx].Text
}

// ParsePriority does a case-insensitive substring match of raw cell text
// against the known priority levels; first match wins, unmatched is nil.
func ParsePriority(raw string) *Priority {
	upper := strings.ToUpper(trimSpace(raw))
	if upper == "" {
		return nil
	}
	for _, p := range priorityMatchOrder {
		if strings.Contains(upper, string(p)) {
			return priorityPtr(p)
		}
	}
	return nil
}

// looksLikeDividerText flags short label-like step text: a few words, no
// sentence punctuation. Such rows are divider labels that slipped past the
// colspan heuristics, not testcase steps.
func looksLikeDividerText(step string) bool {
	if runeLen(step) >= 30 {
		return false
	}
	if strings.ContainsAny(step, ".!?") {
		return false
	}
	return len(strings.Fields(step)) <= 4
}

// headerTexts extracts the upper-casable raw header strings of the first row.
func headerTexts(headerRow *goquery.Selection) []string {
	var headers []string
	headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, CellText(cell))
	})
	return headers
}

func optional(s string) *string {
	s = trimSpace(s)
	if s == "" {
		return nil
	}
	return strPtr(s)
}
