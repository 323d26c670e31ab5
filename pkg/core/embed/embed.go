// Package embed wraps the Gemini embedding API behind a small client used to
// vectorize testcase text for semantic search.
package embed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"qamind/pkg/core/logging"
)

const (
	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "text-embedding-004"

	// Dimensions is the vector size DefaultModel produces.
	Dimensions = 768

	maxAttempts  = 3
	initialDelay = 1 * time.Second

	// batchPause spaces out batch requests to stay under the free-tier
	// request rate.
	batchPause = 200 * time.Millisecond
)

// Embedder produces embedding vectors for text.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates an embedder backed by the Gemini API. The API key is
// read from GEMINI_API_KEY.
func NewEmbedder(ctx context.Context, model string) (*Embedder, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (e *Embedder) Close() error {
	return e.client.Close()
}

// EmbedText returns the embedding vector for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)

	var resp *genai.EmbedContentResponse
	err := retry(ctx, func() error {
		var err error
		resp, err = em.EmbedContent(ctx, genai.Text(text))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("embed content: empty response")
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch returns one vector per input text, in order. Requests are
// spaced out; a failed text yields a nil vector rather than failing the
// whole batch.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	log := logging.New("embedder")

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return vectors, err
		}
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			log.WithError(err).WithField("index", i).Warn("embedding failed, leaving vector empty")
			continue
		}
		vectors[i] = vec
		if i < len(texts)-1 {
			time.Sleep(batchPause)
		}
	}
	return vectors, nil
}

func retry(ctx context.Context, fn func() error) error {
	delay := initialDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
