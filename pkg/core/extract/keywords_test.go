package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKeywords_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "table_filter:\n  - SCHRITT\n  - ERWARTET\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keywords file: %v", err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords: %v", err)
	}

	if len(kw.TableFilter) != 2 || kw.TableFilter[0] != "SCHRITT" {
		t.Errorf("table filter = %v, want override", kw.TableFilter)
	}

	defaults := DefaultKeywords()
	if len(kw.SectionNames) != len(defaults.SectionNames) {
		t.Errorf("section names = %v, want defaults", kw.SectionNames)
	}
	if len(kw.Families) != len(defaults.Families) {
		t.Errorf("families count = %d, want defaults", len(kw.Families))
	}
}

func TestLoadKeywords_FullOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `table_filter:
  - STEP
section_names:
  - BLOCK
families:
  - field: step
    tokens: [STEP]
  - field: expected
    tokens: [EXPECTED]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keywords file: %v", err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords: %v", err)
	}
	if len(kw.Families) != 2 || kw.Families[0].Field != FieldStep {
		t.Errorf("families = %v, want the two overridden entries", kw.Families)
	}
	if !kw.isSectionName("BLOCK A") {
		t.Error("BLOCK A should match the overridden section names")
	}
	if kw.isSectionName("GENERAL") {
		t.Error("GENERAL should not match once section names are overridden")
	}
}

func TestLoadKeywords_MissingFile(t *testing.T) {
	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadKeywords_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("table_filter: [unclosed"), 0o644); err != nil {
		t.Fatalf("write keywords file: %v", err)
	}
	if _, err := LoadKeywords(path); err == nil {
		t.Error("expected parse error")
	}
}
