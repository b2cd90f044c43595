package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piljoong/actioncoach/internal/config"
)

func TestNewTextGenerator(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LLMConfig
		wantModel string
		wantErr   bool
	}{
		{
			name:      "gemini default",
			cfg:       config.LLMConfig{Provider: "gemini", GeminiAPIKey: "k"},
			wantModel: "gemini-2.0-flash-exp",
		},
		{
			name:      "empty provider defaults to gemini",
			cfg:       config.LLMConfig{GeminiAPIKey: "k"},
			wantModel: "gemini-2.0-flash-exp",
		},
		{
			name:      "openai",
			cfg:       config.LLMConfig{Provider: "openai", OpenAIAPIKey: "k", OpenAIModel: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:      "ollama",
			cfg:       config.LLMConfig{Provider: "ollama"},
			wantModel: "qwen2.5:7b",
		},
		{
			name:    "unsupported provider",
			cfg:     config.LLMConfig{Provider: "anthropic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewTextGenerator(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, gen.GetModel())
		})
	}
}

func TestNewEmbeddingGenerator(t *testing.T) {
	gen, err := NewEmbeddingGenerator(config.LLMConfig{EmbeddingProvider: "openai", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", gen.GetModel())

	gen, err = NewEmbeddingGenerator(config.LLMConfig{EmbeddingProvider: "ollama", OllamaEmbeddingModel: "nomic-embed-text"})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", gen.GetModel())

	// "none" disables embeddings entirely.
	gen, err = NewEmbeddingGenerator(config.LLMConfig{EmbeddingProvider: "none"})
	require.NoError(t, err)
	assert.Nil(t, gen)

	_, err = NewEmbeddingGenerator(config.LLMConfig{EmbeddingProvider: "cohere"})
	require.Error(t, err)
}
