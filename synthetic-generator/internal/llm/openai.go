package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"aurora-server/shared/utils"
	"aurora-server/synthetic-generator/internal/config"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const openAIMaxTokens = 4096

// openAIProvider реализует Provider с использованием go-openai.
type openAIProvider struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider creates the OpenAI-backed provider. Fails with
// ErrProviderNotConfigured when no API key is set.
func NewOpenAIProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrProviderNotConfigured)
	}
	return &openAIProvider{
		client: openaigo.NewClient(cfg.OpenAIAPIKey),
		model:  cfg.OpenAIModel,
		logger: logger.Named("OpenAIProvider"),
	}, nil
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.complete(ctx, systemPrompt, userPrompt, nil)
}

func (p *openAIProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	content, err := p.complete(ctx, systemPrompt+jsonModeSuffix, userPrompt,
		&openaigo.ChatCompletionResponseFormat{Type: openaigo.ChatCompletionResponseFormatTypeJSONObject})
	if err != nil {
		return nil, err
	}
	cleaned := utils.ExtractJSONContent(content)
	if cleaned == "" {
		p.logger.Warn("OpenAI returned non-JSON content in JSON mode",
			zap.String("content", utils.StringShort(content, 200)))
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, utils.StringShort(content, 120))
	}
	return json.RawMessage(cleaned), nil
}

func (p *openAIProvider) complete(ctx context.Context, systemPrompt, userPrompt string, format *openaigo.ChatCompletionResponseFormat) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return "", fmt.Errorf("%w: system prompt is empty", ErrGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userPrompt,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:          p.model,
		Messages:       messages,
		MaxTokens:      openAIMaxTokens,
		ResponseFormat: format,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		p.logger.Warn("OpenAI returned an empty response", zap.String("model", p.model))
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	p.logger.Debug("OpenAI completion received",
		zap.String("model", p.model),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps API errors onto the retry taxonomy: 429 is retryable,
// everything else is hard failure.
func classifyOpenAIError(err error) error {
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}
