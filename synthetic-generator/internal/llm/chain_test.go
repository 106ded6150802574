package llm

import (
	"testing"

	"aurora-server/synthetic-generator/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProviderChain_PrimaryFirst(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		want    []string
	}{
		{
			name:    "openai primary keeps default order",
			primary: ProviderOpenAI,
			want:    []string{"openai", "anthropic", "ollama"},
		},
		{
			name:    "anthropic primary moves to head",
			primary: ProviderAnthropic,
			want:    []string{"anthropic", "openai", "ollama"},
		},
		{
			name:    "ollama primary moves to head",
			primary: ProviderOllama,
			want:    []string{"ollama", "openai", "anthropic"},
		},
		{
			name:    "unknown primary stays at head",
			primary: "bogus",
			want:    []string{"bogus", "openai", "anthropic", "ollama"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProviderChain(tt.primary))
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("bogus", &config.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestNewProvider_MissingCredentials(t *testing.T) {
	cfg := &config.Config{}

	_, err := NewProvider(ProviderOpenAI, cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = NewProvider(ProviderAnthropic, cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = NewProvider(ProviderOllama, cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestNewProvider_Configured(t *testing.T) {
	cfg := &config.Config{
		OpenAIAPIKey:     "sk-test",
		OpenAIModel:      "gpt-4o-mini",
		AnthropicAPIKey:  "ak-test",
		AnthropicModel:   "claude-sonnet-4-20250514",
		AnthropicBaseURL: "https://api.anthropic.com/v1/messages",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaModel:      "llama3.1",
	}

	for _, name := range allProviders {
		provider, err := NewProvider(name, cfg, zap.NewNop())
		assert.NoError(t, err, name)
		assert.Equal(t, name, provider.Name())
	}
}
