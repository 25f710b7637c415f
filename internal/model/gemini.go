package model

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements Provider on top of the Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a Gemini-backed provider.
func NewGemini(ctx context.Context, modelName, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

// Name returns the model name.
func (g *Gemini) Name() string { return g.modelName }

// Generate runs a single non-streaming completion. Temperature is pinned to
// zero so stage outputs stay as deterministic as the API allows.
func (g *Gemini) Generate(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
