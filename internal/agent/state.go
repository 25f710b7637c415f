package agent

import "researcher/internal/search"

// Document is one accumulated search result.
type Document struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Citation ties a claim in the final answer to a source document.
// IDs are 1-based, contiguous, and unique within one Answer.
type Citation struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Answer is the terminal output of a run. Its JSON form is the process's
// sole result on stdout.
type Answer struct {
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Verdict is the reflection stage's judgment. RefinedQueries is only
// meaningful when Sufficient is false.
type Verdict struct {
	Sufficient     bool
	RefinedQueries []string
}

// RunState is the process-scoped state carried through one run's loop.
// The document set only grows, never shrinks; Cycle counts refinement
// re-entries and never exceeds the configured maximum.
type RunState struct {
	Question  string
	Queries   []string
	Documents []Document
	Cycle     int

	seen map[string]bool // URLs already in Documents
}

func newRunState(question string) *RunState {
	return &RunState{Question: question, seen: make(map[string]bool)}
}

// AddResults merges search results into the cumulative document set,
// de-duplicating by URL and preserving first-seen order. Returns the number
// of documents actually added.
func (s *RunState) AddResults(results []search.Result) int {
	added := 0
	for _, r := range results {
		if r.URL == "" || s.seen[r.URL] {
			continue
		}
		s.seen[r.URL] = true
		s.Documents = append(s.Documents, Document{URL: r.URL, Title: r.Title, Snippet: r.Snippet})
		added++
	}
	return added
}
