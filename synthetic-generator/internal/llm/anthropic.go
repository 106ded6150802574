package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"aurora-server/shared/utils"
	"aurora-server/synthetic-generator/internal/config"

	"go.uber.org/zap"
)

// The Anthropic Messages API is called over plain HTTP; there is no official Go
// SDK dependency to pull in for two request shapes.
const (
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 4096
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// anthropicProvider реализует Provider поверх Messages API.
type anthropicProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// NewAnthropicProvider creates the Anthropic-backed provider. Fails with
// ErrProviderNotConfigured when no API key is set.
func NewAnthropicProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrProviderNotConfigured)
	}
	return &anthropicProvider{
		httpClient: &http.Client{Timeout: cfg.AITimeout},
		baseURL:    cfg.AnthropicBaseURL,
		apiKey:     cfg.AnthropicAPIKey,
		model:      cfg.AnthropicModel,
		logger:     logger.Named("AnthropicProvider"),
	}, nil
}

func (p *anthropicProvider) Name() string { return ProviderAnthropic }

func (p *anthropicProvider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.complete(ctx, systemPrompt, userPrompt)
}

func (p *anthropicProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	content, err := p.complete(ctx, systemPrompt+jsonModeSuffix, userPrompt)
	if err != nil {
		return nil, err
	}
	cleaned := utils.ExtractJSONContent(content)
	if cleaned == "" {
		p.logger.Warn("Anthropic returned non-JSON content in JSON mode",
			zap.String("content", utils.StringShort(content, 200)))
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, utils.StringShort(content, 120))
	}
	return json.RawMessage(cleaned), nil
}

func (p *anthropicProvider) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return "", fmt.Errorf("%w: system prompt is empty", ErrGenerationFailed)
	}

	reqPayload := anthropicRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	}
	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: http request failed: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: anthropic returned 429", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("Anthropic API returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.StringShort(string(bodyBytes), 300)))
		return "", fmt.Errorf("%w: anthropic returned status %d", ErrGenerationFailed, resp.StatusCode)
	}
	if readErr != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrGenerationFailed, readErr)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrGenerationFailed, err)
	}
	if parsed.Error != nil {
		if parsed.Error.Type == "rate_limit_error" {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: %s: %s", ErrGenerationFailed, parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return parsed.Content[0].Text, nil
}
