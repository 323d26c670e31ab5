package extract

import "testing"

func TestParseTestcases_SingleTable(t *testing.T) {
	html := `<h1>WEB: Login</h1>
	<p>Preconditions: a registered user.</p>
	<table>
		<tr><th>№</th><th>STEP</th><th>EXPECTED RESULT</th><th>SCREENSHOT</th><th>PRIORITY</th><th>CONFIG</th><th>QA AUTO COVERAGE</th></tr>
		<tr><td colspan="7">GENERAL</td></tr>
		<tr><td>1</td><td>Click the login button</td><td>User is redirected to dashboard</td><td></td><td>HIGH</td><td></td><td></td></tr>
	</table>`

	result := NewHTMLParser(nil).ParseTestcases(html)
	if result.Diagnostic != "" {
		t.Fatalf("unexpected diagnostic: %s", result.Diagnostic)
	}
	if len(result.Testcases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(result.Testcases))
	}

	tc := result.Testcases[0]
	if tc.Step != "Click the login button" {
		t.Errorf("step = %q", tc.Step)
	}
	if tc.ExpectedResult != "User is redirected to dashboard" {
		t.Errorf("expected result = %q", tc.ExpectedResult)
	}
	if tc.Priority == nil || *tc.Priority != PriorityHigh {
		t.Errorf("priority = %v, want HIGH", tc.Priority)
	}
	if tc.TestGroup != GroupGeneral {
		t.Errorf("test group = %s, want GENERAL", tc.TestGroup)
	}
	if tc.Functionality != nil {
		t.Errorf("functionality = %q, want nil", *tc.Functionality)
	}
}

func TestParseTestcases_SkipsNonTestcaseTables(t *testing.T) {
	html := `<table>
		<tr><th>Environment</th><th>URL</th></tr>
		<tr><td>staging</td><td>https://staging.example.com</td></tr>
	</table>
	<table>
		<tr><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td>Open the billing page from the menu</td><td>Billing history is listed</td><td>MEDIUM</td></tr>
	</table>`

	result := NewHTMLParser(nil).ParseTestcases(html)
	if len(result.Testcases) != 1 {
		t.Fatalf("got %d testcases, want 1 (environment table skipped)", len(result.Testcases))
	}
}

func TestParseTestcases_MultipleTablesKeepLocalIndices(t *testing.T) {
	html := `<table>
		<tr><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td>Open the login page in a browser</td><td>Form is shown</td><td>HIGH</td></tr>
		<tr><td>Submit valid credentials there</td><td>User signs in</td><td>HIGH</td></tr>
	</table>
	<table>
		<tr><th>Step</th><th>Expected result</th><th>Priority</th></tr>
		<tr><td>Open the logout menu entry</td><td>Session ends</td><td>LOW</td></tr>
	</table>`

	result := NewHTMLParser(nil).ParseTestcases(html)
	if len(result.Testcases) != 3 {
		t.Fatalf("got %d testcases, want 3", len(result.Testcases))
	}
	wantIndices := []int{0, 1, 0}
	for i, tc := range result.Testcases {
		if tc.OrderIndex != wantIndices[i] {
			t.Errorf("testcase %d order index = %d, want %d (table-local)", i, tc.OrderIndex, wantIndices[i])
		}
	}
}

func TestParseTestcases_EmptyAndGarbageInput(t *testing.T) {
	for _, input := range []string{"", "<p>no tables here</p>", "<<<<not html"} {
		result := NewHTMLParser(nil).ParseTestcases(input)
		if len(result.Testcases) != 0 {
			t.Errorf("input %q: got %d testcases, want 0", input, len(result.Testcases))
		}
	}
}
