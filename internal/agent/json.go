package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeStageJSON parses a stage model's JSON output into v. Models are
// instructed to return a bare object, but fenced or prefixed output still
// shows up in practice, so the first balanced object in the text is used.
func decodeStageJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model output: %q", truncate(raw, 200))
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
