package extract

import "testing"

func TestDetectSchema_TemplateMatch(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		wantName string
		wantStep int
		wantExp  int
	}{
		{
			name:     "standard 7 col exact",
			headers:  []string{"№", "STEP", "EXPECTED RESULT", "SCREENSHOT", "PRIORITY", "CONFIG", "QA AUTO COVERAGE"},
			wantName: "standard_7_col",
			wantStep: 1,
			wantExp:  2,
		},
		{
			name:     "simple 4 col",
			headers:  []string{"№", "Step", "Expected result", "Priority"},
			wantName: "simple_4_col",
			wantStep: 1,
			wantExp:  2,
		},
		{
			name:     "simple 3 col",
			headers:  []string{"Step", "Expected result", "Priority"},
			wantName: "simple_3_col",
			wantStep: 0,
			wantExp:  1,
		},
	}

	kw := DefaultKeywords()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			schema := DetectSchema(tc.headers, kw)
			if schema.Name != tc.wantName {
				t.Fatalf("schema name = %q, want %q", schema.Name, tc.wantName)
			}
			if got := schema.ColumnMapping[FieldStep]; got != tc.wantStep {
				t.Errorf("step column = %d, want %d", got, tc.wantStep)
			}
			if got := schema.ColumnMapping[FieldExpected]; got != tc.wantExp {
				t.Errorf("expected column = %d, want %d", got, tc.wantExp)
			}
		})
	}
}

func TestDetectSchema_ExactTemplateSimilarity(t *testing.T) {
	headers := []string{"№", "STEP", "EXPECTED RESULT", "SCREENSHOT", "PRIORITY", "CONFIG", "QA AUTO COVERAGE"}
	upper := make([]string, len(headers))
	copy(upper, headers)

	score := headerSimilarity(upper, templateCatalog[0].headers)
	if score != 1.0 {
		t.Errorf("similarity = %f, want 1.0", score)
	}
}

func TestDetectSchema_AdaptiveFallback(t *testing.T) {
	// Column count matches no template and the headers are unusual, so the
	// keyword families must construct the mapping.
	headers := []string{"Номер", "Шаг", "Ожидаемый результат", "Приоритет", "Конфиг"}
	schema := DetectSchema(headers, DefaultKeywords())

	if schema.Name != "adaptive" {
		t.Fatalf("schema name = %q, want adaptive", schema.Name)
	}
	want := map[Field]int{
		FieldNumber:   0,
		FieldStep:     1,
		FieldExpected: 2,
		FieldPriority: 3,
		FieldConfig:   4,
	}
	for field, idx := range want {
		if got, ok := schema.ColumnMapping[field]; !ok || got != idx {
			t.Errorf("mapping[%s] = %d (present=%v), want %d", field, got, ok, idx)
		}
	}
}

func TestDetectSchema_LowSimilarityFallsBack(t *testing.T) {
	// Three columns like simple_3_col, but only one header is recognizable:
	// similarity 1/3 is below the cutoff.
	headers := []string{"Case", "Notes", "Priority"}
	schema := DetectSchema(headers, DefaultKeywords())
	if schema.Name != "adaptive" {
		t.Errorf("schema name = %q, want adaptive", schema.Name)
	}
}
