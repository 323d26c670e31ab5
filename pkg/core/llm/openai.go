package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// OpenAIProvider implements Provider against the OpenAI chat-completions
// wire format. BaseURL makes it usable with API-compatible backends
// (DeepSeek, local gateways); it defaults to api.openai.com.
type OpenAIProvider struct {
	BaseURL string
	Model   string // e.g. "gpt-4o-mini"
	Client  *http.Client
}

var _ Provider = (*OpenAIProvider)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts a chat completion and returns the first choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := opts.Model
	if model == "" {
		model = p.Model
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	return withBackoff(ctx, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("create chat request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		res, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("chat completion call: %w", err)
		}
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return "", fmt.Errorf("read chat response: %w", err)
		}
		if res.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat completion status %d: %s", res.StatusCode, string(body))
		}

		var response chatResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return "", fmt.Errorf("decode chat response: %w", err)
		}
		if len(response.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}
		return response.Choices[0].Message.Content, nil
	})
}
