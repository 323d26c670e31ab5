package utils

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, false},
		{"prose wrapped", "Here you go:\n{\"a\": 1}\nThanks!", `{"a": 1}`, false},
		{"markdown fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`, false},
		{"nested braces", `note {"a": {"b": 2}} end`, `{"a": {"b": 2}}`, false},
		{"no object", "nothing here", "", true},
		{"reversed braces", "} {", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractJSONObject(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSmartParse_Strict(t *testing.T) {
	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := SmartParse(`{"name": "login", "count": 3}`, &out); err != nil {
		t.Fatalf("SmartParse: %v", err)
	}
	if out.Name != "login" || out.Count != 3 {
		t.Errorf("got %+v", out)
	}
}

func TestSmartParse_RepairsLooseJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	// Single quotes, unquoted key, trailing comma.
	if err := SmartParse(`{name: 'login',}`, &out); err != nil {
		t.Fatalf("SmartParse: %v", err)
	}
	if out.Name != "login" {
		t.Errorf("name = %q", out.Name)
	}
}

func TestSmartParse_Hopeless(t *testing.T) {
	var out map[string]interface{}
	if err := SmartParse("][", &out); err == nil {
		t.Error("expected error for unparseable input")
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"```markdown\n# Title\nbody\n```", "# Title\nbody"},
		{"```\ncode\n```", "code"},
		{"starts with ``` only", "starts with ``` only"},
	}
	for _, tt := range tests {
		if got := CleanMarkdown(tt.in); got != tt.want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Heading\n\nsome *emphasis*") {
		t.Error("well-formed markdown should validate")
	}
}
