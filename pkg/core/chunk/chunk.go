// Package chunk splits normalized page text into overlapping chunks sized
// for the embedding model.
package chunk

import "strings"

const (
	// DefaultSize and DefaultOverlap are token budgets per chunk.
	DefaultSize    = 800
	DefaultOverlap = 200
)

// Chunker splits text on paragraph boundaries, falling back to sentence
// splits for oversized paragraphs, and carries a sentence overlap between
// consecutive chunks.
type Chunker struct {
	Size    int
	Overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// CountTokens estimates the model token count of text. English averages
// about three words per four tokens; this approximation is close enough for
// budget enforcement.
func CountTokens(text string) int {
	words := len(strings.Fields(text))
	return words + words/3
}

// Split returns the chunks of text, each within the token budget.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current string
	currentTokens := 0

	for _, paragraph := range paragraphs {
		tokens := CountTokens(paragraph)

		if tokens > c.Size {
			if strings.TrimSpace(current) != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			chunks = append(chunks, c.splitParagraph(paragraph)...)
			current = ""
			currentTokens = 0
			continue
		}

		if currentTokens+tokens > c.Size && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			overlap := c.overlapText(current)
			if overlap != "" {
				current = overlap + "\n\n" + paragraph
			} else {
				current = paragraph
			}
			currentTokens = CountTokens(current)
		} else {
			if current != "" {
				current += "\n\n" + paragraph
			} else {
				current = paragraph
			}
			currentTokens += tokens
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// splitParagraph breaks an oversized paragraph on sentence boundaries,
// keeping the last two sentences as overlap between pieces.
func (c *Chunker) splitParagraph(paragraph string) []string {
	var sentences []string
	for _, s := range strings.Split(paragraph, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s+".")
		}
	}

	var chunks []string
	var piece []string
	pieceTokens := 0

	for _, sentence := range sentences {
		tokens := CountTokens(sentence)
		if pieceTokens+tokens > c.Size && len(piece) > 0 {
			chunks = append(chunks, strings.Join(piece, " "))
			overlap := piece
			if len(piece) > 2 {
				overlap = piece[len(piece)-2:]
			}
			piece = append(append([]string{}, overlap...), sentence)
			pieceTokens = 0
			for _, s := range piece {
				pieceTokens += CountTokens(s)
			}
		} else {
			piece = append(piece, sentence)
			pieceTokens += tokens
		}
	}
	if len(piece) > 0 {
		chunks = append(chunks, strings.Join(piece, " "))
	}
	return chunks
}

// overlapText takes trailing sentences from a chunk up to the overlap
// budget.
func (c *Chunker) overlapText(chunk string) string {
	sentences := strings.Split(chunk, ".")
	var overlap []string
	tokens := 0

	for i := len(sentences) - 1; i >= 0; i-- {
		sentence := strings.TrimSpace(sentences[i])
		if sentence == "" {
			continue
		}
		t := CountTokens(sentence)
		if tokens+t > c.Overlap {
			break
		}
		overlap = append([]string{sentence}, overlap...)
		tokens += t
	}
	return strings.Join(overlap, ". ")
}
