package agent

import (
	"context"
	"fmt"
	"strings"

	"researcher/prompts"
)

type queryList struct {
	Queries []string `json:"queries"`
}

// generateQueries asks the model for the initial search queries. There is no
// retry: a provider error or an empty/unparseable result aborts the run.
func (o *Orchestrator) generateQueries(ctx context.Context, question string) ([]string, error) {
	user := fmt.Sprintf("Generate %d to 5 search queries.\n\nUser question: %s", o.initialQueries, question)

	raw, err := o.llm.Generate(ctx, prompts.QueryWriter, user)
	if err != nil {
		return nil, fmt.Errorf("query generation: %w", err)
	}

	var out queryList
	if err := decodeStageJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("query generation: %w", err)
	}

	queries := dedupeQueries(out.Queries)
	if len(queries) == 0 {
		return nil, fmt.Errorf("query generation: model returned no queries")
	}
	return queries, nil
}

// dedupeQueries trims and drops empty or repeated queries, preserving order.
func dedupeQueries(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, q := range in {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}
