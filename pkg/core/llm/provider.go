// Package llm abstracts the chat-completion providers used by the secondary
// testcase analyzer. Providers are opaque text-in/text-out collaborators;
// response parsing lives with the analyzer.
package llm

import (
	"context"
	"time"
)

// Options tunes a single completion call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the interface for all LLM providers.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)
}

// retry policy shared by providers: attempts with exponential backoff,
// honoring context cancellation between tries.
const (
	maxAttempts  = 3
	initialDelay = time.Second
)

// withBackoff runs call up to maxAttempts times, doubling the delay after
// each failure. The last error is returned when all attempts fail.
func withBackoff(ctx context.Context, call func() (string, error)) (string, error) {
	delay := initialDelay
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		text, err := call()
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}
