package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey     string
	maxResults int
	client     *http.Client
	endpoint   string
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, maxResults int) *Tavily {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Tavily{
		apiKey:     apiKey,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 10 * time.Second},
		endpoint:   tavilyEndpoint,
	}
}

// Search posts a query to Tavily. 429 responses are retried with a doubling
// delay capped at 30s; any other non-200 status is an error.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	body := map[string]any{
		"query":       query,
		"api_key":     t.apiKey,
		"max_results": t.maxResults,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{URL: r.URL, Title: r.Title, Snippet: r.Content})
		if len(results) >= t.maxResults {
			break
		}
	}
	return results, nil
}
