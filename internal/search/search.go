// Package search provides the web search providers. Both the live Tavily
// client and the offline stand-in satisfy the same one-method interface, so
// the rest of the system is oblivious to which is active.
package search

import (
	"context"
	"log/slog"

	"researcher/internal/config"
)

// Result is a single document returned by a search.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Provider executes a query and returns result documents.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// New selects the search provider: Tavily when a key is configured,
// otherwise the deterministic offline provider. A missing search credential
// is never an error.
func New(cfg *config.Config) Provider {
	if cfg.TavilyAPIKey != "" {
		slog.Info("using search provider", "provider", "tavily")
		return NewTavily(cfg.TavilyAPIKey, cfg.ResultsPerQuery)
	}
	slog.Info("TAVILY_API_KEY not set; using offline search provider")
	return NewOffline(cfg.ResultsPerQuery)
}
