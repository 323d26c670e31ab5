package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"qamind/pkg/core/logging"
)

// DefaultPrimaryThreshold is the HTML-result count above which the HTML
// parser is trusted as the primary source. The value is empirical: a
// near-empty HTML result usually means an unrecognized table shape, in which
// case the LLM's looser extraction is the better base. Overridable via
// MergeOptions; do not re-derive it.
const DefaultPrimaryThreshold = 10

// MergeOptions tunes the merge engine.
type MergeOptions struct {
	// PrimaryThreshold overrides DefaultPrimaryThreshold when > 0.
	PrimaryThreshold int
}

// Merger combines the HTML-parser and LLM-analyzer outputs and removes
// near-duplicate testcases.
type Merger struct {
	threshold int
}

// NewMerger creates a merge engine.
func NewMerger(opts MergeOptions) *Merger {
	threshold := opts.PrimaryThreshold
	if threshold <= 0 {
		threshold = DefaultPrimaryThreshold
	}
	return &Merger{threshold: threshold}
}

// Merge concatenates both sources — the richer one first — then deduplicates
// by normalized content hash. Testcases with steps shorter than
// MinStepLength are dropped before hashing regardless of source. Output
// preserves first-seen order with order indices reassigned densely from 0.
func (m *Merger) Merge(htmlTestcases, llmTestcases []RawTestCase) []RawTestCase {
	log := logging.New("merge")

	var combined []RawTestCase
	primary := "html"
	if len(htmlTestcases) > m.threshold {
		combined = append(combined, htmlTestcases...)
		combined = append(combined, llmTestcases...)
	} else {
		primary = "llm"
		combined = append(combined, llmTestcases...)
		combined = append(combined, htmlTestcases...)
	}

	var unique []RawTestCase
	seen := make(map[string]int) // hash -> index into unique

	for _, tc := range combined {
		if !tc.Valid() {
			continue
		}
		hash := testcaseHash(tc.Step, tc.ExpectedResult)
		if idx, dup := seen[hash]; dup {
			if betterCandidate(&tc, &unique[idx]) {
				order := unique[idx].OrderIndex
				unique[idx] = tc
				unique[idx].OrderIndex = order
			}
			continue
		}
		seen[hash] = len(unique)
		tc.OrderIndex = len(unique)
		unique = append(unique, tc)
	}

	log.WithFields(map[string]interface{}{
		"primary":    primary,
		"total":      len(combined),
		"unique":     len(unique),
		"duplicates": len(combined) - len(unique),
	}).Debug("merge complete")

	return unique
}

// betterCandidate implements the replacement rule for duplicates, in strict
// priority order: has a priority the kept one lacks, then has a config the
// kept one lacks, then has a strictly longer step.
func betterCandidate(candidate, kept *RawTestCase) bool {
	if candidate.Priority != nil && kept.Priority == nil {
		return true
	}
	if candidate.Priority == nil && kept.Priority != nil {
		return false
	}
	if candidate.Config != nil && kept.Config == nil {
		return true
	}
	if candidate.Config == nil && kept.Config != nil {
		return false
	}
	return len(candidate.Step) > len(kept.Step)
}

// testcaseHash digests the normalized step and expected result. Step and
// expected are normalized independently and joined with a separator, so
// ("a b", "c") and ("a", "b c") hash differently.
func testcaseHash(step, expected string) string {
	combined := normalizeForComparison(step) + "|" + normalizeForComparison(expected)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// normalizeForComparison lower-cases, strips punctuation and collapses
// whitespace. Letters and digits of any script survive; everything else
// becomes a word boundary.
func normalizeForComparison(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(trimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return collapseWhitespace(b.String())
}
