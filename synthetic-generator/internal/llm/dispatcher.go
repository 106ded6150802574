package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aurora-server/synthetic-generator/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Dispatcher walks the provider fallback chain. It is the only path by which
// the persona and post generators reach the network: callers never touch a
// Provider directly.
type Dispatcher struct {
	chain       []string
	retryPolicy RetryPolicy
	logger      *zap.Logger

	// newProvider is the provider factory; tests swap it for mocks.
	newProvider func(name string) (Provider, error)
}

// NewDispatcher builds the dispatcher from configuration.
func NewDispatcher(cfg *config.Config, logger *zap.Logger) *Dispatcher {
	log := logger.Named("Dispatcher")
	return &Dispatcher{
		chain: ProviderChain(cfg.PrimaryProvider),
		retryPolicy: RetryPolicy{
			MaxAttempts: cfg.AIMaxAttempts,
			BaseDelay:   cfg.AIBaseRetryDelay,
		},
		logger: log,
		newProvider: func(name string) (Provider, error) {
			return NewProvider(name, cfg, log)
		},
	}
}

// GenerateText runs the prompt pair down the chain until one provider succeeds.
func (d *Dispatcher) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return dispatch(ctx, d, func(ctx context.Context, p Provider) (string, error) {
		return p.GenerateText(ctx, systemPrompt, userPrompt)
	})
}

// GenerateJSON is GenerateText for structured mode.
func (d *Dispatcher) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	return dispatch(ctx, d, func(ctx context.Context, p Provider) (json.RawMessage, error) {
		return p.GenerateJSON(ctx, systemPrompt, userPrompt)
	})
}

// dispatch iterates the chain, wrapping each provider call in the retry policy.
// A provider that cannot be constructed (missing credentials) is logged and
// skipped like any other failure.
func dispatch[T any](ctx context.Context, d *Dispatcher, call func(context.Context, Provider) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i, name := range d.chain {
		provider, err := d.newProvider(name)
		if err != nil {
			d.logger.Debug("Skipping provider", zap.String("provider", name), zap.Error(err))
			lastErr = err
			continue
		}

		start := time.Now()
		result, err := Retry(ctx, d.retryPolicy, d.logger, name, func(ctx context.Context) (T, error) {
			return call(ctx, provider)
		})
		llmRequestDuration.With(prometheus.Labels{"provider": name}).Observe(time.Since(start).Seconds())

		if err == nil {
			llmRequestsTotal.With(prometheus.Labels{"provider": name, "status": "success"}).Inc()
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}

		llmRequestsTotal.With(prometheus.Labels{"provider": name, "status": "error"}).Inc()
		d.logger.Warn("Provider failed", zap.String("provider", name), zap.Error(err))
		lastErr = err

		if i < len(d.chain)-1 {
			llmFallbacksTotal.Inc()
			d.logger.Info("Falling back to next provider", zap.String("failed", name), zap.String("next", d.chain[i+1]))
		}
	}

	return zero, fmt.Errorf("%w: last error: %v", ErrAllProvidersFailed, lastErr)
}
