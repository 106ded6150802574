package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider names form a closed set; the attempt order of non-primary providers is
// fixed (see ProviderChain).
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ErrRateLimited - провайдер ответил 429; запрос можно повторить.
var ErrRateLimited = errors.New("provider rate limited")

// ErrGenerationFailed - жесткая ошибка провайдера (bad credentials, malformed request).
var ErrGenerationFailed = errors.New("text generation failed")

// ErrMalformedResponse - структурированный ответ не распарсился как JSON.
var ErrMalformedResponse = errors.New("malformed generation response")

// ErrAllProvidersFailed - все провайдеры в цепочке исчерпаны.
var ErrAllProvidersFailed = errors.New("all generation providers failed")

// ErrProviderNotConfigured - у провайдера нет учетных данных или адреса.
var ErrProviderNotConfigured = errors.New("generation provider is not configured")

// Provider is a single external generation service. Implementations perform
// exactly one outbound call per invocation; retries belong to RetryPolicy, and
// fallback across providers belongs to the Dispatcher.
type Provider interface {
	Name() string

	// GenerateText returns the raw completion for the prompt pair.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// GenerateJSON returns a parsed JSON document. Incidental wrapping (markdown
	// fences, surrounding prose) is stripped before parsing; output that still is
	// not valid JSON fails with ErrMalformedResponse.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
}

// jsonModeSuffix is appended to the system prompt for structured calls.
const jsonModeSuffix = "\nYou must respond with valid JSON only. No markdown, no explanation."
