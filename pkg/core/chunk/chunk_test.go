package chunk

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one two three", 4},
		{"a b c d e f", 8},
		{"single", 1},
	}
	for _, tt := range tests {
		if got := CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(0, -1)
	if c.Size != DefaultSize || c.Overlap != DefaultOverlap {
		t.Errorf("got size %d overlap %d, want defaults", c.Size, c.Overlap)
	}
	c = New(100, 0)
	if c.Size != 100 || c.Overlap != 0 {
		t.Errorf("explicit zero overlap should be kept, got %d", c.Overlap)
	}
}

func TestSplit_Empty(t *testing.T) {
	c := New(0, 0)
	if got := c.Split("   \n\n  "); got != nil {
		t.Errorf("got %v, want nil for blank text", got)
	}
}

func TestSplit_SingleSmallText(t *testing.T) {
	c := New(0, 0)
	text := "First paragraph here.\n\nSecond paragraph here."
	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk = %q, want input preserved", chunks[0])
	}
}

func TestSplit_RespectsBudget(t *testing.T) {
	paragraph := "This paragraph contains exactly twelve words to make the math easy."
	text := strings.Repeat(paragraph+"\n\n", 30)

	c := New(50, 10)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, chunk := range chunks {
		// Overlap carry can push a chunk slightly past the budget.
		if got := CountTokens(chunk); got > c.Size+c.Overlap {
			t.Errorf("chunk %d has %d tokens, budget %d plus overlap %d", i, got, c.Size, c.Overlap)
		}
	}
}

func TestSplit_OversizedParagraph(t *testing.T) {
	sentence := "A sentence of eight words goes right here."
	paragraph := strings.Repeat(sentence+" ", 40)

	c := New(50, 10)
	chunks := c.Split(paragraph)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want sentence-level splits", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.Contains(chunk, "sentence of eight words") {
			t.Errorf("chunk %d lost its sentences: %q", i, chunk)
		}
	}
}

func TestSplit_CarriesOverlap(t *testing.T) {
	var parts []string
	for i := 0; i < 20; i++ {
		parts = append(parts, strings.Repeat("word ", 30)+"marker"+string(rune('a'+i))+".")
	}
	text := strings.Join(parts, "\n\n")

	c := New(80, 50)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	// Each chunk after the first should begin with text repeated from its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		head := strings.Fields(chunks[i])[0]
		if !strings.Contains(chunks[i-1], head) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}
