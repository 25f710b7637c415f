// Package model hides the LLM vendors behind a single-method provider.
// The concrete implementation is chosen once at startup from configuration;
// the stages never inspect which vendor is active.
package model

import (
	"context"
	"fmt"
	"log/slog"

	"researcher/internal/config"
)

// Provider generates text from a system instruction and a user prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}

// New creates the LLM provider for the configured vendor.
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.ModelVendor {
	case config.VendorGemini:
		p, err := NewGemini(ctx, cfg.ModelName, cfg.ModelAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create Gemini model: %w", err)
		}
		slog.Info("using model", "vendor", "gemini", "model", cfg.ModelName)
		return p, nil

	case config.VendorAnthropic:
		p := NewAnthropic(cfg.ModelName, cfg.ModelAPIKey)
		slog.Info("using model", "vendor", "anthropic", "model", cfg.ModelName)
		return p, nil

	default:
		return nil, fmt.Errorf("unknown model vendor: %s (supported: gemini, anthropic)", cfg.ModelVendor)
	}
}
