// Package config loads runtime settings from environment variables and an
// optional qamind.yaml file, env taking precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings is the resolved application configuration.
type Settings struct {
	LogLevel  string
	LogFormat string

	ConfluenceBaseURL   string
	ConfluenceAuthToken string
	UseMockConfluence   bool

	LLMProvider      string // "gemini" or "openai"
	LLMModel         string
	EnhancedAnalysis bool

	EmbeddingModel   string
	EmbeddingEnabled bool

	ChunkSize    int
	ChunkOverlap int

	Concurrency    int
	SkipUnchanged  bool
	MinSimilarity  float64
	KeywordsFile   string
	MergeThreshold int
}

// Load reads settings. cfgFile overrides the default config lookup when not
// empty.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("qamind")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("QAMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env and defaults carry a missing file.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, err
		}
	}

	return &Settings{
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),

		ConfluenceBaseURL:   v.GetString("confluence.base_url"),
		ConfluenceAuthToken: v.GetString("confluence.auth_token"),
		UseMockConfluence:   v.GetBool("confluence.use_mock"),

		LLMProvider:      v.GetString("llm.provider"),
		LLMModel:         v.GetString("llm.model"),
		EnhancedAnalysis: v.GetBool("llm.enhanced_analysis"),

		EmbeddingModel:   v.GetString("embedding.model"),
		EmbeddingEnabled: v.GetBool("embedding.enabled"),

		ChunkSize:    v.GetInt("chunk.size"),
		ChunkOverlap: v.GetInt("chunk.overlap"),

		Concurrency:    v.GetInt("pipeline.concurrency"),
		SkipUnchanged:  v.GetBool("pipeline.skip_unchanged"),
		MinSimilarity:  v.GetFloat64("search.min_similarity"),
		KeywordsFile:   v.GetString("extract.keywords_file"),
		MergeThreshold: v.GetInt("pipeline.merge_threshold"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("confluence.use_mock", true)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.enhanced_analysis", true)
	v.SetDefault("embedding.enabled", false)
	v.SetDefault("chunk.size", 800)
	v.SetDefault("chunk.overlap", 200)
	v.SetDefault("pipeline.concurrency", 3)
	v.SetDefault("pipeline.skip_unchanged", true)
	v.SetDefault("search.min_similarity", 0.5)
}
