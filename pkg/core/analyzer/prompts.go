package analyzer

import "fmt"

// systemPrompt describes the target JSON shape. It mirrors the RawTestCase
// record plus the page-level fields the store wants (description, feature,
// additional content before the testcase table).
const systemPrompt = `You are an expert QA checklist analyst. Your task is to fully parse the content of a QA checklist page and extract all structured information.

QA CONTENT STRUCTURE:
1. Section - a global root section such as "Checklist WEB" or "Checklist MOB"
2. Checklist - a concrete functionality page such as "WEB: Billing History"
3. Feature - a short functionality category used for classification
4. Additional content - all text/information BEFORE the testcase table
5. Test cases - structured testcases from the table

TESTCASE STRUCTURE:
- step: the action the QA engineer performs
- expected_result: what must happen
- screenshot: image reference (may be absent)
- priority: LOWEST, LOW, MEDIUM, HIGH, HIGHEST or CRITICAL
- test_group: GENERAL or CUSTOM (separated by special divider rows)
- functionality: the concrete functionality group within the test_group
- config: config reference for this testcase
- qa_auto_coverage: automated test coverage
- order_index: ordinal position

IMPORTANT:
- Divider rows in the table indicate the test_group (GENERAL/CUSTOM) or the functionality
- A row with only one populated cell is a divider
- Additional content is EVERYTHING before the testcase table
- The feature name must be short and describe the main functionality

Reply with a single JSON object and nothing else.`

// userPrompt renders the per-page analysis request with the expected reply
// schema spelled out.
func userPrompt(title, content string) string {
	return fmt.Sprintf(`Analyze this QA content and extract ALL structured information.

TITLE: %s

CONTENT:
%s

Return the result in exactly this JSON format:
{
  "section_title": "name of the global section, if determinable",
  "checklist_description": "short description of the checklist functionality",
  "additional_content": "all text/information before the testcase table",
  "feature_name": "short feature name (2-4 words)",
  "feature_description": "feature description for classification",
  "testcases": [
    {
      "step": "step description",
      "expected_result": "expected result",
      "screenshot": "screenshot reference or null",
      "priority": "LOWEST|LOW|MEDIUM|HIGH|HIGHEST|CRITICAL or null",
      "test_group": "GENERAL|CUSTOM or null",
      "functionality": "functionality name or null",
      "config": "config reference or null",
      "qa_auto_coverage": "auto test coverage or null",
      "order_index": 0
    }
  ],
  "configs": ["every config mentioned anywhere on the page"],
  "confidence": 0.95
}

Pay particular attention to:
1. Divider rows that switch the test_group (GENERAL/CUSTOM)
2. Functionality sub-groups
3. All config references
4. The correct testcase order
5. All additional content before the table`, title, content)
}
