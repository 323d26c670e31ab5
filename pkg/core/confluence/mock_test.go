package confluence

import (
	"context"
	"testing"
)

func TestMockAPI_GetPagesByIDs(t *testing.T) {
	m := NewMockAPI()
	ctx := context.Background()

	pages, err := m.GetPagesByIDs(ctx, []string{"100"}, false)
	if err != nil {
		t.Fatalf("GetPagesByIDs: %v", err)
	}
	if len(pages) != 1 || pages[0].ID != "100" {
		t.Fatalf("got %d pages, want the root page only", len(pages))
	}

	pages, err = m.GetPagesByIDs(ctx, []string{"100"}, true)
	if err != nil {
		t.Fatalf("GetPagesByIDs with children: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want root plus two children", len(pages))
	}
	if pages[0].ID != "100" || pages[1].ID != "100.1" || pages[2].ID != "100.2" {
		t.Errorf("page order = %v", []string{pages[0].ID, pages[1].ID, pages[2].ID})
	}
}

func TestMockAPI_UnknownIDsSkipped(t *testing.T) {
	m := NewMockAPI()
	pages, err := m.GetPagesByIDs(context.Background(), []string{"missing", "100.1"}, false)
	if err != nil {
		t.Fatalf("GetPagesByIDs: %v", err)
	}
	if len(pages) != 1 || pages[0].ID != "100.1" {
		t.Errorf("got %v, want just the known page", pages)
	}
}

func TestMockAPI_GetPageContent(t *testing.T) {
	m := NewMockAPI()
	p, err := m.GetPageContent(context.Background(), "100.2")
	if err != nil {
		t.Fatalf("GetPageContent: %v", err)
	}
	if p.Title != "WEB: Billing History" {
		t.Errorf("title = %q", p.Title)
	}

	if _, err := m.GetPageContent(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown page")
	}
}

func TestMockAPI_AddPage(t *testing.T) {
	m := NewMockAPI()
	m.AddPage(Page{ID: "100.3", Title: "WEB: Export", Space: "QA"})

	pages, err := m.GetPagesByIDs(context.Background(), []string{"100"}, true)
	if err != nil {
		t.Fatalf("GetPagesByIDs: %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("got %d pages, want the new child included", len(pages))
	}
	if pages[3].ID != "100.3" {
		t.Errorf("last page = %q", pages[3].ID)
	}
}

func TestIsChildOf(t *testing.T) {
	tests := []struct {
		id, parent string
		want       bool
	}{
		{"100.1", "100", true},
		{"100.1.2", "100", true},
		{"100", "100", false},
		{"1001", "100", false},
		{"200.1", "100", false},
		{"100.", "100", false},
	}
	for _, tt := range tests {
		if got := isChildOf(tt.id, tt.parent); got != tt.want {
			t.Errorf("isChildOf(%q, %q) = %v, want %v", tt.id, tt.parent, got, tt.want)
		}
	}
}
