package agent

import (
	"context"
	"fmt"
	"strings"

	"researcher/prompts"
)

type reflectionOutput struct {
	Sufficient     bool     `json:"sufficient"`
	RefinedQueries []string `json:"refined_queries"`
}

// reflect asks the model whether the accumulated documents answer the
// question, and for refined queries when they do not. This is the sole
// decision point of the loop; a provider error here aborts the run.
func (o *Orchestrator) reflect(ctx context.Context, state *RunState, priorQueries []string) (Verdict, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %s\n\n", state.Question)

	b.WriteString("Search results so far:\n")
	if len(state.Documents) == 0 {
		b.WriteString("(none)\n")
	}
	for i, doc := range state.Documents {
		fmt.Fprintf(&b, "%d. %s | %s | %s\n", i+1, doc.Title, doc.URL, doc.Snippet)
	}

	if len(priorQueries) > 0 {
		b.WriteString("\nQueries already run:\n")
		for _, q := range priorQueries {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString("\nIs there enough information to answer the question comprehensively? If not, what new queries should be run?")

	raw, err := o.llm.Generate(ctx, prompts.Reflection, b.String())
	if err != nil {
		return Verdict{}, fmt.Errorf("reflection: %w", err)
	}

	var out reflectionOutput
	if err := decodeStageJSON(raw, &out); err != nil {
		return Verdict{}, fmt.Errorf("reflection: %w", err)
	}

	return Verdict{
		Sufficient:     out.Sufficient,
		RefinedQueries: dedupeQueries(out.RefinedQueries),
	}, nil
}
