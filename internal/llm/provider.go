package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/errors"
)

// Provider is a text generation backend
type Provider interface {
	Name() string
	// Generate returns the model's reply to userInput under systemPrompt.
	// Failures are ProviderErrors.
	Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error)
}

// New builds the named provider from explicit settings. A missing API key
// is a ConfigurationError.
func New(ctx context.Context, name string, pc config.ProviderConfig) (Provider, error) {
	if pc.APIKey == "" {
		return nil, errors.ConfigErrorf("%s API key not configured (set %s)", name, config.EnvVar(name))
	}

	switch name {
	case config.ProviderOpenAI:
		return NewOpenAI(pc), nil
	case config.ProviderDeepSeek:
		return NewDeepSeek(pc), nil
	case config.ProviderClaude:
		return NewClaude(pc), nil
	case config.ProviderGemini:
		return NewGemini(ctx, pc)
	default:
		return nil, errors.ConfigErrorf("unknown provider %q", name)
	}
}

// Available builds every provider that has credentials, in
// config.ProviderNames order. No credentials at all is a
// ConfigurationError naming the variables to set.
func Available(ctx context.Context, cfg *config.Config) ([]Provider, error) {
	if err := cfg.RequireAnyProvider(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "llm")

	var providers []Provider
	for _, name := range cfg.LLM.Configured() {
		p, err := New(ctx, name, *cfg.LLM.ProviderConfig(name))
		if err != nil {
			logger.Warn("provider unavailable", "provider", name, "error", err)
			continue
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, errors.ConfigError("no AI provider could be initialized")
	}
	return providers, nil
}

// Select returns the provider called name, or the only one when name is
// empty and there is exactly one.
func Select(providers []Provider, name string) (Provider, error) {
	if name == "" {
		if len(providers) == 1 {
			return providers[0], nil
		}
		return nil, errors.ValidationError("several providers configured; choose one with --provider")
	}

	for _, p := range providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, errors.ConfigErrorf("provider %q is not configured", name)
}

func emptyResponse(provider string) error {
	return errors.ProviderError(fmt.Errorf("empty response"), provider+" returned no content")
}
