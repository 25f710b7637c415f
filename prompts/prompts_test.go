package prompts

import (
	"strings"
	"testing"
)

func TestPrompts_NonEmpty(t *testing.T) {
	prompts := map[string]string{
		"QueryWriter": QueryWriter,
		"Reflection":  Reflection,
		"Synthesis":   Synthesis,
	}

	for name, content := range prompts {
		t.Run(name, func(t *testing.T) {
			if content == "" {
				t.Errorf("%s prompt is empty", name)
			}
			if len(content) < 100 {
				t.Errorf("%s prompt suspiciously short: %d bytes", name, len(content))
			}
		})
	}
}

func TestPrompts_ExpectedKeywords(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		keywords []string
	}{
		{
			"QueryWriter",
			QueryWriter,
			[]string{"queries", "JSON", "search"},
		},
		{
			"Reflection",
			Reflection,
			[]string{"sufficient", "refined_queries", "distinct"},
		},
		{
			"Synthesis",
			Synthesis,
			[]string{"cited_ids", "answer", "documents"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lower := strings.ToLower(tc.content)
			for _, kw := range tc.keywords {
				if !strings.Contains(lower, strings.ToLower(kw)) {
					t.Errorf("%s prompt missing keyword %q", tc.name, kw)
				}
			}
		})
	}
}

func TestPrompts_DemandBareJSON(t *testing.T) {
	// Every stage prompt must forbid markdown fences so the JSON parser
	// sees a bare object in the common case.
	for name, content := range map[string]string{
		"QueryWriter": QueryWriter,
		"Reflection":  Reflection,
		"Synthesis":   Synthesis,
	} {
		t.Run(name, func(t *testing.T) {
			if !strings.Contains(content, "JSON object") {
				t.Errorf("%s prompt should ask for a JSON object", name)
			}
			if !strings.Contains(strings.ToLower(content), "no markdown fences") {
				t.Errorf("%s prompt should forbid markdown fences", name)
			}
		})
	}
}
