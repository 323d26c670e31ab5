package confluence

import (
	"context"
	"fmt"
	"time"
)

// MockAPI serves a fixed set of checklist pages. It exists for local
// development and the ingestion tests, where hitting a real wiki is
// impossible.
type MockAPI struct {
	pages map[string]Page
	order []string
}

// NewMockAPI builds the mock with its built-in sample pages.
func NewMockAPI() *MockAPI {
	m := &MockAPI{pages: make(map[string]Page)}
	for _, p := range samplePages() {
		m.add(p)
	}
	return m
}

func (m *MockAPI) add(p Page) {
	if _, ok := m.pages[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.pages[p.ID] = p
}

// AddPage registers an extra page, overwriting any existing page with the
// same ID.
func (m *MockAPI) AddPage(p Page) {
	m.add(p)
}

func (m *MockAPI) GetPagesByIDs(_ context.Context, pageIDs []string, includeChildren bool) ([]Page, error) {
	var out []Page
	for _, id := range pageIDs {
		p, ok := m.pages[id]
		if !ok {
			continue
		}
		out = append(out, p)
		if includeChildren {
			for _, candidateID := range m.order {
				if candidateID != id && isChildOf(candidateID, id) {
					out = append(out, m.pages[candidateID])
				}
			}
		}
	}
	return out, nil
}

func (m *MockAPI) GetPageContent(_ context.Context, pageID string) (*Page, error) {
	p, ok := m.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("mock page %s not found", pageID)
	}
	return &p, nil
}

// Mock child IDs extend the parent ID with a dotted suffix.
func isChildOf(id, parentID string) bool {
	return len(id) > len(parentID)+1 && id[:len(parentID)] == parentID && id[len(parentID)] == '.'
}

func samplePages() []Page {
	now := time.Now()
	return []Page{
		{
			ID:      "100",
			Title:   "Checklist WEB",
			Space:   "QA",
			URL:     "https://example.atlassian.net/wiki/pages/100",
			Labels:  []string{"checklist"},
			Version: 3,
			Updated: now.Add(-48 * time.Hour),
			Content: `<p>Root section for web product checklists.</p>`,
		},
		{
			ID:      "100.1",
			Title:   "WEB: Login",
			Space:   "QA",
			URL:     "https://example.atlassian.net/wiki/pages/100.1",
			Labels:  []string{"checklist", "auth"},
			Version: 7,
			Updated: now.Add(-24 * time.Hour),
			Content: `<p>Covers the login form and session handling.</p>
<table>
<tbody>
<tr><th>#</th><th>Step</th><th>Expected result</th><th>Priority</th></tr>
<tr><td colspan="4"><strong>GENERAL</strong></td></tr>
<tr><td>1</td><td>Open the login page and enter valid credentials</td><td>User is signed in and redirected to the dashboard</td><td>HIGHEST</td></tr>
<tr><td>2</td><td>Enter an invalid password three times in a row</td><td>Account is temporarily locked with a clear message</td><td>HIGH</td></tr>
<tr><td colspan="4"><strong>CUSTOM</strong></td></tr>
<tr><td>3</td><td>Sign in while the remember-me checkbox is active</td><td>Session survives a browser restart</td><td>MEDIUM</td></tr>
</tbody>
</table>`,
		},
		{
			ID:      "100.2",
			Title:   "WEB: Billing History",
			Space:   "QA",
			URL:     "https://example.atlassian.net/wiki/pages/100.2",
			Labels:  []string{"checklist", "billing"},
			Version: 2,
			Updated: now.Add(-2 * time.Hour),
			Content: `<p>Billing history table, filters and export.</p>
<table>
<tbody>
<tr><th>#</th><th>Step</th><th>Expected result</th><th>Screenshot</th><th>Priority</th><th>Config</th><th>QA auto coverage</th></tr>
<tr><td>1</td><td>Open billing history with at least one completed payment</td><td>Payments are listed newest first with amount and status</td><td></td><td>HIGH</td><td>billing.history.enabled</td><td>covered</td></tr>
<tr><td>2</td><td>Filter the history by a date range with no payments</td><td>An empty state with a reset-filter action is shown</td><td></td><td>MEDIUM</td><td></td><td></td></tr>
</tbody>
</table>`,
		},
	}
}
