package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Keywords holds the token sets that drive table filtering, section
// detection and adaptive schema construction. The checklists mix Latin and
// Cyrillic headers, and new locales show up without warning, so the sets are
// data rather than constants: load overrides from YAML with LoadKeywords.
type Keywords struct {
	// TableFilter marks a table as a testcase table when any token appears
	// in the joined upper-cased header row.
	TableFilter []string `yaml:"table_filter"`

	// SectionNames identify section-marker rows (GENERAL/CUSTOM and their
	// generic labels).
	SectionNames []string `yaml:"section_names"`

	// Families drive adaptive schema construction, in priority order.
	// Each header claims at most one field: the first family that matches wins.
	Families []FieldFamily `yaml:"families"`
}

// FieldFamily binds a schema field to its recognition tokens.
type FieldFamily struct {
	Field  Field    `yaml:"field"`
	Tokens []string `yaml:"tokens"`
}

// DefaultKeywords returns the built-in token sets observed across the
// production checklist spaces.
func DefaultKeywords() *Keywords {
	return &Keywords{
		TableFilter: []string{
			"STEP", "EXPECTED", "PRIORITY", "CONFIG",
			"ШАГ", "ОЖИДАЕМЫЙ", "ПРИОРИТЕТ",
		},
		SectionNames: []string{
			"GENERAL", "CUSTOM", "SECTION", "РАЗДЕЛ", "ЧАСТЬ",
		},
		Families: []FieldFamily{
			{Field: FieldNumber, Tokens: []string{"№", "NUMBER", "NUM", "НОМЕР"}},
			{Field: FieldStep, Tokens: []string{"STEP", "ШАГ", "ДЕЙСТВИЕ"}},
			{Field: FieldExpected, Tokens: []string{"EXPECTED", "ОЖИДАЕМЫЙ", "RESULT", "РЕЗУЛЬТАТ"}},
			{Field: FieldScreenshot, Tokens: []string{"SCREENSHOT", "СКРИНШОТ", "SCREEN"}},
			{Field: FieldPriority, Tokens: []string{"PRIORITY", "ПРИОРИТЕТ", "PRIOR"}},
			{Field: FieldConfig, Tokens: []string{"CONFIG", "КОНФИГ", "CONFIGURATION"}},
			{Field: FieldQACoverage, Tokens: []string{"QA", "COVERAGE", "ПОКРЫТИЕ"}},
		},
	}
}

// LoadKeywords reads a YAML override file. Empty sections fall back to the
// defaults, so an override file only needs the sets it changes.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}

	defaults := DefaultKeywords()
	if len(kw.TableFilter) == 0 {
		kw.TableFilter = defaults.TableFilter
	}
	if len(kw.SectionNames) == 0 {
		kw.SectionNames = defaults.SectionNames
	}
	if len(kw.Families) == 0 {
		kw.Families = defaults.Families
	}
	return &kw, nil
}

// isSectionName reports whether upper-cased cell text names a section.
func (k *Keywords) isSectionName(upperText string) bool {
	for _, name := range k.SectionNames {
		if containsToken(upperText, name) {
			return true
		}
	}
	return false
}
