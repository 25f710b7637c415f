package search

import (
	"context"
	"testing"
)

func TestOffline_Deterministic(t *testing.T) {
	p := NewOffline(3)

	first, err := p.Search(context.Background(), "2022 FIFA World Cup winner")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := p.Search(context.Background(), "2022 FIFA World Cup winner")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(first) != 3 {
		t.Fatalf("got %d results, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between identical queries:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestOffline_DistinctQueriesDistinctURLs(t *testing.T) {
	p := NewOffline(2)

	a, _ := p.Search(context.Background(), "first query")
	b, _ := p.Search(context.Background(), "second query")

	seen := map[string]bool{}
	for _, r := range a {
		seen[r.URL] = true
	}
	for _, r := range b {
		if seen[r.URL] {
			t.Errorf("URL %s collides across distinct queries", r.URL)
		}
	}
}
