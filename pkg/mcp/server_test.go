package mcp

import (
	"context"
	"testing"
)

func TestNewServer(t *testing.T) {
	s := NewServer(nil, 0)
	if s.MCPServer == nil {
		t.Fatal("MCP server not constructed")
	}
	if s.minSimilarity != 0.5 {
		t.Errorf("min similarity = %v, want 0.5 default", s.minSimilarity)
	}
	if s.checklists == nil || s.testcases == nil || s.chunks == nil {
		t.Error("repositories not wired")
	}

	s = NewServer(nil, 0.7)
	if s.minSimilarity != 0.7 {
		t.Errorf("min similarity = %v, want 0.7", s.minSimilarity)
	}
}

func TestHandleChecklistsForFunctionality_RequiresLabel(t *testing.T) {
	s := NewServer(nil, 0)
	_, _, err := s.handleChecklistsForFunctionality(context.Background(), nil, checklistsForFunctionalityInput{})
	if err == nil {
		t.Error("expected error for empty functionality")
	}
}

func TestHandleGetPageContent_RequiresPageID(t *testing.T) {
	s := NewServer(nil, 0)
	_, _, err := s.handleGetPageContent(context.Background(), nil, getPageContentInput{})
	if err == nil {
		t.Error("expected error for empty page id")
	}
}

func TestHandleSearchTestcases_RequiresQuery(t *testing.T) {
	s := NewServer(nil, 0)
	_, _, err := s.handleSearchTestcases(context.Background(), nil, searchInput{})
	if err == nil {
		t.Error("expected error for empty query")
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		requested, fallback, max int
		want                     int
	}{
		{0, 50, 200, 50},
		{-3, 50, 200, 50},
		{10, 50, 200, 10},
		{500, 50, 200, 200},
		{200, 50, 200, 200},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.requested, tt.fallback, tt.max); got != tt.want {
			t.Errorf("clampLimit(%d, %d, %d) = %d, want %d", tt.requested, tt.fallback, tt.max, got, tt.want)
		}
	}
}
