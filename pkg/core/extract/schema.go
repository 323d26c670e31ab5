package extract

import "strings"

// schemaTemplate is a known checklist table layout.
type schemaTemplate struct {
	name    string
	headers []string
	mapping map[Field]int
}

// templateCatalog lists the table layouts seen across the checklist spaces.
// Matching is positional: a template competes only when the column count
// matches, and wins on header-token similarity.
var templateCatalog = []schemaTemplate{
	{
		name:    "standard_7_col",
		headers: []string{"№", "STEP", "EXPECTED RESULT", "SCREENSHOT", "PRIORITY", "CONFIG", "QA AUTO COVERAGE"},
		mapping: map[Field]int{
			FieldNumber: 0, FieldStep: 1, FieldExpected: 2, FieldScreenshot: 3,
			FieldPriority: 4, FieldConfig: 5, FieldQACoverage: 6,
		},
	},
	{
		name:    "standard_8_col",
		headers: []string{"№", "STEP", "EXPECTED RESULT", "SCREENSHOT", "PRIORITY", "CONFIG", "QA AUTO COVERAGE", "EXTRA"},
		mapping: map[Field]int{
			FieldNumber: 0, FieldStep: 1, FieldExpected: 2, FieldScreenshot: 3,
			FieldPriority: 4, FieldConfig: 5, FieldQACoverage: 6, FieldExtra: 7,
		},
	},
	{
		name:    "simple_4_col",
		headers: []string{"№", "STEP", "EXPECTED RESULT", "PRIORITY"},
		mapping: map[Field]int{
			FieldNumber: 0, FieldStep: 1, FieldExpected: 2, FieldPriority: 3,
		},
	},
	{
		name:    "simple_3_col",
		headers: []string{"STEP", "EXPECTED RESULT", "PRIORITY"},
		mapping: map[Field]int{
			FieldStep: 0, FieldExpected: 1, FieldPriority: 2,
		},
	},
}

// minTemplateSimilarity is the score below which template matching gives up
// and adaptive construction takes over.
const minTemplateSimilarity = 0.5

// DetectSchema infers the column mapping for a table from its header row.
// It first scores the header against the template catalog; if no template
// shares the column count or the best score is below minTemplateSimilarity,
// it builds an adaptive schema from the keyword families instead.
func DetectSchema(headers []string, kw *Keywords) TableSchema {
	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(trimSpace(h))
	}

	var best *schemaTemplate
	bestScore := 0.0
	for i := range templateCatalog {
		tpl := &templateCatalog[i]
		if len(tpl.headers) != len(upper) {
			continue
		}
		if score := headerSimilarity(upper, tpl.headers); score > bestScore {
			bestScore = score
			best = tpl
		}
	}

	if best == nil || bestScore < minTemplateSimilarity {
		return adaptiveSchema(upper, kw)
	}

	mapping := make(map[Field]int, len(best.mapping))
	for f, idx := range best.mapping {
		mapping[f] = idx
	}
	return TableSchema{Name: best.name, Columns: len(upper), ColumnMapping: mapping}
}

// headerSimilarity is the fraction of positions where the header token equals
// the template token or the two share at least one word.
func headerSimilarity(headers, template []string) float64 {
	if len(headers) != len(template) {
		return 0.0
	}
	matches := 0
	for i := range headers {
		if headerTokensMatch(headers[i], template[i]) {
			matches++
		}
	}
	return float64(matches) / float64(len(headers))
}

func headerTokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	for _, word := range strings.Fields(b) {
		if strings.Contains(a, word) {
			return true
		}
	}
	for _, word := range strings.Fields(a) {
		if strings.Contains(b, word) {
			return true
		}
	}
	return false
}

// adaptiveSchema assigns columns by scanning each header against the keyword
// families in priority order. A header claims at most one field (first family
// wins), and the mapping may be a strict subset of fields when nothing matches.
func adaptiveSchema(upperHeaders []string, kw *Keywords) TableSchema {
	mapping := make(map[Field]int)
	for i, header := range upperHeaders {
		for _, family := range kw.Families {
			if anyTokenIn(header, family.Tokens) {
				mapping[family.Field] = i
				break
			}
		}
	}
	return TableSchema{Name: "adaptive", Columns: len(upperHeaders), ColumnMapping: mapping}
}

func anyTokenIn(text string, tokens []string) bool {
	for _, tok := range tokens {
		if containsToken(text, tok) {
			return true
		}
	}
	return false
}
