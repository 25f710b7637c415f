package agent

import (
	"context"
	"log/slog"
	"sync"

	"researcher/internal/search"
)

// searchAll dispatches every query to the search provider concurrently and
// waits for all of them (barrier join, no short-circuiting). A failed query
// contributes zero documents and is logged, never fatal: if every query
// fails the stage simply adds nothing and the run proceeds to reflection.
// Returns the number of new documents merged into the state.
func (o *Orchestrator) searchAll(ctx context.Context, state *RunState, log *slog.Logger) int {
	perQuery := make([][]search.Result, len(state.Queries))

	var wg sync.WaitGroup
	for i, query := range state.Queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results, err := o.searcher.Search(ctx, query)
			if err != nil {
				log.Warn("search query failed", "query", query, "err", err)
				return
			}
			perQuery[i] = results
		}(i, query)
	}
	wg.Wait()

	// Merge in query order so runs are deterministic modulo provider output.
	added := 0
	for i := range perQuery {
		added += state.AddResults(perQuery[i])
	}
	return added
}
