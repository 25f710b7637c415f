package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Offline is the deterministic stand-in used when no search credential is
// configured. Results are a pure function of the query, so repeated runs and
// tests see identical documents.
type Offline struct {
	maxResults int
}

// NewOffline constructs the offline provider.
func NewOffline(maxResults int) *Offline {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Offline{maxResults: maxResults}
}

// Search fabricates maxResults documents for the query. URLs embed a digest
// of the query, so distinct queries never collide during de-duplication.
func (o *Offline) Search(_ context.Context, query string) ([]Result, error) {
	slug := querySlug(query)
	digest := sha256.Sum256([]byte(query))
	tag := hex.EncodeToString(digest[:4])

	results := make([]Result, 0, o.maxResults)
	for i := 1; i <= o.maxResults; i++ {
		results = append(results, Result{
			URL:     fmt.Sprintf("https://offline.research.invalid/%s-%s/%d", slug, tag, i),
			Title:   fmt.Sprintf("Offline result %d for %q", i, query),
			Snippet: fmt.Sprintf("Placeholder snippet %d for the query %q. No live search credential was configured.", i, query),
		})
	}
	return results, nil
}

// querySlug reduces a query to a short url-safe token.
func querySlug(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) > 4 {
		fields = fields[:4]
	}
	slug := strings.Join(fields, "-")
	var b strings.Builder
	for _, r := range slug {
		if r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "query"
	}
	return b.String()
}
