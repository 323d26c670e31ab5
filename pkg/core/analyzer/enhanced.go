package analyzer

import (
	"context"
	"strings"

	"qamind/pkg/core/extract"
	"qamind/pkg/core/logging"
)

// Block sizes for the second extraction pass. Large pages routinely blow past
// the single-prompt content limit, so the enhanced pass re-analyzes the page
// in overlapping windows and merges whatever the first pass missed.
const (
	blockChars   = 6000
	blockOverlap = 500
)

// enhanceExtraction runs a second, block-wise pass over the full content and
// appends testcases the single-prompt pass did not surface. Duplicates are
// detected by normalized step text.
func (a *Analyzer) enhanceExtraction(ctx context.Context, content string, initial []extract.RawTestCase) []extract.RawTestCase {
	blocks := splitBlocks(content, blockChars, blockOverlap)
	if len(blocks) <= 1 {
		return initial
	}

	seen := make(map[string]struct{}, len(initial))
	for _, tc := range initial {
		seen[stepKey(tc.Step)] = struct{}{}
	}

	log := logging.New("llm-analyzer")
	merged := initial
	next := nextOrderIndex(initial)
	for i, block := range blocks {
		if ctx.Err() != nil {
			log.WithField("block", i).Warn("enhanced pass cancelled")
			break
		}
		analysis := a.analyzeOnce(ctx, "", block)
		for _, tc := range analysis.Testcases {
			key := stepKey(tc.Step)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			tc.OrderIndex = next
			next++
			merged = append(merged, tc)
		}
	}
	if len(merged) > len(initial) {
		log.WithField("added", len(merged)-len(initial)).Info("enhanced pass recovered testcases")
	}
	return merged
}

// splitBlocks cuts content into windows of at most size runes, each block
// starting overlap runes before the previous block ended. Cuts prefer
// paragraph boundaries near the window end.
func splitBlocks(content string, size, overlap int) []string {
	runes := []rune(content)
	if len(runes) <= size {
		return []string{content}
	}
	var blocks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			blocks = append(blocks, string(runes[start:]))
			break
		}
		cut := end
		window := string(runes[start:end])
		if idx := strings.LastIndex(window, "\n\n"); idx > size/2 {
			cut = start + len([]rune(window[:idx]))
		}
		blocks = append(blocks, string(runes[start:cut]))
		start = cut - overlap
		if start < 0 {
			start = 0
		}
	}
	return blocks
}

func stepKey(step string) string {
	return strings.ToLower(strings.Join(strings.Fields(step), " "))
}

func nextOrderIndex(cases []extract.RawTestCase) int {
	next := 0
	for _, tc := range cases {
		if tc.OrderIndex >= next {
			next = tc.OrderIndex + 1
		}
	}
	return next
}
