package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic implements Provider on top of the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	modelName string
}

// NewAnthropic creates an Anthropic-backed provider.
func NewAnthropic(modelName, apiKey string) *Anthropic {
	return &Anthropic{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
	}
}

// Name returns the model name.
func (a *Anthropic) Name() string { return a.modelName }

// Generate runs a single non-streaming message turn.
func (a *Anthropic) Generate(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.modelName),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Temperature: anthropic.Float(0),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("anthropic returned no text blocks")
	}
	return text, nil
}
