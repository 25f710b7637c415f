package agent

import (
	"context"
	"fmt"
	"strings"

	"researcher/prompts"
)

// noInformationAnswer is returned when a run ends with zero accumulated
// documents. No synthesis call is made in that case.
const noInformationAnswer = "No information found."

type synthesisOutput struct {
	Answer   string `json:"answer"`
	CitedIDs []int  `json:"cited_ids"`
}

// synthesize composes the final answer from the cumulative document set.
// Citations are numbered in the model's own reference order, renumbered to a
// contiguous 1-based sequence; when the model reports no usable IDs, every
// document is cited in accumulation order instead. A provider error aborts
// the run — there is no partial-answer fallback.
func (o *Orchestrator) synthesize(ctx context.Context, state *RunState) (Answer, error) {
	if len(state.Documents) == 0 {
		return Answer{Text: noInformationAnswer, Citations: []Citation{}}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nDocuments:\n", state.Question)
	for i, doc := range state.Documents {
		fmt.Fprintf(&b, "[Document %d]\nURL: %s\nTitle: %s\nContent: %s\n\n", i+1, doc.URL, doc.Title, doc.Snippet)
	}

	raw, err := o.llm.Generate(ctx, prompts.Synthesis, b.String())
	if err != nil {
		return Answer{}, fmt.Errorf("synthesis: %w", err)
	}

	var out synthesisOutput
	if err := decodeStageJSON(raw, &out); err != nil {
		return Answer{}, fmt.Errorf("synthesis: %w", err)
	}
	if strings.TrimSpace(out.Answer) == "" {
		return Answer{}, fmt.Errorf("synthesis: model returned an empty answer")
	}

	citations, markers := buildCitations(state.Documents, out.CitedIDs)
	return Answer{
		Text:      strings.TrimSpace(out.Answer) + markers,
		Citations: citations,
	}, nil
}

// buildCitations maps the model's cited document IDs (1-based positions in
// the accumulation order) to the final citation list. IDs out of range are
// dropped; repeated URLs keep their first-assigned ID. The returned marker
// string ("[1][2]") follows the final IDs in the model's reference order.
// With no usable IDs, all documents are cited in accumulation order.
func buildCitations(docs []Document, citedIDs []int) ([]Citation, string) {
	var orderedDocs []Document
	seenURL := make(map[string]bool)
	for _, id := range citedIDs {
		if id < 1 || id > len(docs) {
			continue
		}
		doc := docs[id-1]
		if seenURL[doc.URL] {
			continue
		}
		seenURL[doc.URL] = true
		orderedDocs = append(orderedDocs, doc)
	}

	if len(orderedDocs) == 0 {
		orderedDocs = docs
	}

	citations := make([]Citation, 0, len(orderedDocs))
	var markers strings.Builder
	for i, doc := range orderedDocs {
		citations = append(citations, Citation{ID: i + 1, URL: doc.URL, Title: doc.Title})
		fmt.Fprintf(&markers, "[%d]", i+1)
	}
	return citations, markers.String()
}
