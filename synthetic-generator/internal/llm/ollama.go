package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"aurora-server/shared/utils"
	"aurora-server/synthetic-generator/internal/config"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// ollamaProvider реализует Provider с использованием ollama/api.
type ollamaProvider struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllamaProvider creates the Ollama-backed provider. Fails with
// ErrProviderNotConfigured when no base URL is set.
func NewOllamaProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	if cfg.OllamaBaseURL == "" {
		return nil, fmt.Errorf("%w: OLLAMA_BASE_URL is not set", ErrProviderNotConfigured)
	}

	// api.NewClient требует URL без суффикса /v1
	baseURL := strings.TrimSuffix(cfg.OllamaBaseURL, "/v1")
	baseURL = strings.TrimSuffix(baseURL, "/")
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Ollama base URL '%s': %v", ErrProviderNotConfigured, baseURL, err)
	}

	return &ollamaProvider{
		client: api.NewClient(parsedURL, &http.Client{Timeout: cfg.AITimeout}),
		model:  cfg.OllamaModel,
		logger: logger.Named("OllamaProvider"),
	}, nil
}

func (p *ollamaProvider) Name() string { return ProviderOllama }

func (p *ollamaProvider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.chat(ctx, systemPrompt, userPrompt, nil)
}

func (p *ollamaProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	content, err := p.chat(ctx, systemPrompt+jsonModeSuffix, userPrompt, json.RawMessage(`"json"`))
	if err != nil {
		return nil, err
	}
	cleaned := utils.ExtractJSONContent(content)
	if cleaned == "" {
		p.logger.Warn("Ollama returned non-JSON content in JSON mode",
			zap.String("content", utils.StringShort(content, 200)))
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, utils.StringShort(content, 120))
	}
	return json.RawMessage(cleaned), nil
}

func (p *ollamaProvider) chat(ctx context.Context, systemPrompt, userPrompt string, format json.RawMessage) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return "", fmt.Errorf("%w: system prompt is empty", ErrGenerationFailed)
	}

	messages := []api.Message{
		{Role: "system", Content: systemPrompt},
	}
	if userPrompt != "" {
		messages = append(messages, api.Message{Role: "user", Content: userPrompt})
	}

	req := &api.ChatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(false),
		Format:   format,
	}

	var sb strings.Builder
	err := p.client.Chat(ctx, req, func(r api.ChatResponse) error {
		sb.WriteString(r.Message.Content)
		return nil
	})
	if err != nil {
		// Локальный Ollama не отдает 429, поэтому все ошибки жесткие.
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	content := sb.String()
	if content == "" {
		p.logger.Warn("Ollama returned an empty response", zap.String("model", p.model))
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return content, nil
}
