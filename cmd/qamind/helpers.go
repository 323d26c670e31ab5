package main

import (
	"context"
	"fmt"

	"qamind/pkg/core/analyzer"
	"qamind/pkg/core/confluence"
	"qamind/pkg/core/embed"
	"qamind/pkg/core/extract"
	"qamind/pkg/core/llm"
)

func loadKeywords() (*extract.Keywords, error) {
	if settings.KeywordsFile == "" {
		return nil, nil
	}
	return extract.LoadKeywords(settings.KeywordsFile)
}

func buildConfluenceAPI() (confluence.API, error) {
	if settings.UseMockConfluence {
		return confluence.NewMockAPI(), nil
	}
	return confluence.NewClient(settings.ConfluenceBaseURL, settings.ConfluenceAuthToken)
}

func buildAnalyzer() (*analyzer.Analyzer, error) {
	var provider llm.Provider
	switch settings.LLMProvider {
	case "", "gemini":
		provider = &llm.GeminiProvider{Model: settings.LLMModel}
	case "openai":
		provider = &llm.OpenAIProvider{Model: settings.LLMModel}
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", settings.LLMProvider)
	}
	return analyzer.New(provider, settings.EnhancedAnalysis), nil
}

func buildEmbedder(ctx context.Context) (*embed.Embedder, error) {
	if !settings.EmbeddingEnabled {
		return nil, nil
	}
	return embed.NewEmbedder(ctx, settings.EmbeddingModel)
}
