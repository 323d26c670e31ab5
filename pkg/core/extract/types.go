// Package extract implements the HTML-table-to-testcase extraction engine
// for Confluence QA checklist pages. It recognizes varying table schemas,
// tracks section/functionality divider rows, and merges its output with the
// secondary LLM analyzer via the dedup engine in merge.go.
package extract

import "unicode/utf8"

// Priority is a testcase priority level as it appears in checklist tables.
type Priority string

const (
	PriorityLowest   Priority = "LOWEST"
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityHighest  Priority = "HIGHEST"
	PriorityCritical Priority = "CRITICAL"
)

// priorityMatchOrder is the substring-match order for priority cells.
// HIGHEST must be tested before HIGH: "HIGHEST" contains "HIGH".
var priorityMatchOrder = []Priority{
	PriorityHighest,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
	PriorityCritical,
}

// TestGroup is the section a testcase belongs to. Always GENERAL or CUSTOM.
type TestGroup string

const (
	GroupGeneral TestGroup = "GENERAL"
	GroupCustom  TestGroup = "CUSTOM"
)

// Field names a logical testcase column within a table schema.
type Field string

const (
	FieldNumber     Field = "number"
	FieldStep       Field = "step"
	FieldExpected   Field = "expected"
	FieldScreenshot Field = "screenshot"
	FieldPriority   Field = "priority"
	FieldConfig     Field = "config"
	FieldQACoverage Field = "qa_coverage"
	FieldExtra      Field = "extra"
)

// MinStepLength is the minimum trimmed step length for a valid testcase.
const MinStepLength = 10

// RawTestCase is the engine's output unit: a testcase extracted from a page
// but not yet persisted. Durable IDs are assigned by the store, never here.
type RawTestCase struct {
	Step           string    `json:"step"`
	ExpectedResult string    `json:"expected_result"`
	Priority       *Priority `json:"priority"`
	TestGroup      TestGroup `json:"test_group"`
	Functionality  *string   `json:"functionality"`
	Config         *string   `json:"config"`
	QAAutoCoverage *string   `json:"qa_auto_coverage"`
	Screenshot     *string   `json:"screenshot"`
	OrderIndex     int       `json:"order_index"`
}

// Valid reports whether the testcase meets the minimum shape for persistence.
// Step length is counted in runes: Cyrillic steps are as common as Latin ones.
func (tc *RawTestCase) Valid() bool {
	return runeLen(trimSpace(tc.Step)) >= MinStepLength
}

// TableSchema maps logical testcase fields to column indices of one table.
// Built once per table from the header row, consumed for every data row.
type TableSchema struct {
	Name          string
	Columns       int
	ColumnMapping map[Field]int
}

// ParseState carries the running section/functionality context across the
// rows of one table. It is a value threaded through the table extractor,
// never shared state, so concurrent per-page extraction is safe.
type ParseState struct {
	Section       TestGroup
	Functionality *string
}

// NewParseState returns the initial per-table state.
func NewParseState() ParseState {
	return ParseState{Section: GroupGeneral}
}

// Result is the outcome of one extraction pass. A recovered internal error
// yields an empty Testcases slice plus a Diagnostic, so callers can tell
// "zero because the page was empty" from "zero because parsing failed".
type Result struct {
	Testcases  []RawTestCase
	Diagnostic string
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func strPtr(s string) *string { return &s }

func priorityPtr(p Priority) *Priority { return &p }
