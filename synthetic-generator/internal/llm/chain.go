package llm

import (
	"fmt"

	"aurora-server/synthetic-generator/internal/config"

	"go.uber.org/zap"
)

// allProviders is the fixed attempt order for non-primary providers.
var allProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderOllama}

// ProviderChain returns the ordered attempt sequence: primary first, remaining
// providers once each in fixed order. An unknown primary is kept at the head so
// the misconfiguration surfaces as a construction error instead of silently
// changing the fallback order.
func ProviderChain(primary string) []string {
	chain := []string{primary}
	for _, name := range allProviders {
		if name != primary {
			chain = append(chain, name)
		}
	}
	return chain
}

// NewProvider constructs the named provider from configuration. The name switch
// lives here, at construction time only; business logic sees the Provider
// interface.
func NewProvider(name string, cfg *config.Config, logger *zap.Logger) (Provider, error) {
	switch name {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg, logger)
	case ProviderOllama:
		return NewOllamaProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider '%s'", ErrProviderNotConfigured, name)
	}
}
