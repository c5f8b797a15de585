package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/troikatech/kisan-voicebot/pkg/metrics"
)

var ErrNoProviders = errors.New("no AI providers available")

// Manager manages AI providers with fallback logic
type Manager struct {
	providers []Provider
	logger    *zap.Logger
}

// NewManager creates a new AI provider manager
func NewManager(providers []Provider, logger *zap.Logger) *Manager {
	return &Manager{
		providers: providers,
		logger:    logger,
	}
}

// AvailableProviders lists the names of configured providers, in fallback order.
func (m *Manager) AvailableProviders() []string {
	var names []string
	for _, provider := range m.providers {
		if provider.IsAvailable() {
			names = append(names, provider.Name())
		}
	}
	return names
}

// ExecuteWithFallback tries each available provider in order and returns the
// first successful completion. It stops early if ctx is done.
func (m *Manager) ExecuteWithFallback(ctx context.Context, req *GenerationRequest) (string, string, error) {
	var lastErr error
	tried := 0
	for _, provider := range m.providers {
		if !provider.IsAvailable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		tried++

		start := time.Now()
		text, err := provider.Generate(ctx, req)
		metrics.RecordGeneration(provider.Name(), err == nil, time.Since(start))
		if err == nil {
			m.logger.Debug("AI provider replied",
				zap.String("provider", provider.Name()),
				zap.Duration("latency", time.Since(start)),
			)
			return text, provider.Name(), nil
		}

		lastErr = err
		m.logger.Warn("AI provider failed, trying next",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
	}

	if tried == 0 {
		return "", "", ErrNoProviders
	}
	return "", "", fmt.Errorf("all AI providers failed. Last error: %w", lastErr)
}
