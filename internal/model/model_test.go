package model

import (
	"context"
	"testing"

	"researcher/internal/config"
)

func TestNew_VendorSwitch(t *testing.T) {
	ctx := context.Background()

	t.Run("anthropic", func(t *testing.T) {
		p, err := New(ctx, &config.Config{
			ModelVendor: config.VendorAnthropic,
			ModelName:   "claude-sonnet-4-0",
			ModelAPIKey: "test-key",
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, ok := p.(*Anthropic); !ok {
			t.Fatalf("got %T, want *Anthropic", p)
		}
		if p.Name() != "claude-sonnet-4-0" {
			t.Errorf("name = %q", p.Name())
		}
	})

	t.Run("gemini", func(t *testing.T) {
		p, err := New(ctx, &config.Config{
			ModelVendor: config.VendorGemini,
			ModelName:   "gemini-2.0-flash",
			ModelAPIKey: "test-key",
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, ok := p.(*Gemini); !ok {
			t.Fatalf("got %T, want *Gemini", p)
		}
		if p.Name() != "gemini-2.0-flash" {
			t.Errorf("name = %q", p.Name())
		}
	})

	t.Run("unknown vendor", func(t *testing.T) {
		if _, err := New(ctx, &config.Config{ModelVendor: "openai"}); err == nil {
			t.Fatal("expected error for unsupported vendor")
		}
	})
}
