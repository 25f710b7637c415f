package logging

import (
	"log/slog"
	"testing"
)

func TestInitLogging_StripsFlag(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"equals form", []string{"-log-level=debug", "question"}, []string{"question"}},
		{"double dash equals", []string{"--log-level=warn", "question"}, []string{"question"}},
		{"separate value", []string{"-log-level", "error", "question"}, []string{"question"}},
		{"no flag", []string{"question"}, []string{"question"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InitLogging(tc.args)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("arg %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestInitLogging_DebugLevelEnabled(t *testing.T) {
	InitLogging([]string{"-log-level=debug"})
	if !slog.Default().Enabled(nil, slog.LevelDebug) {
		t.Error("debug level should be enabled after -log-level=debug")
	}

	InitLogging([]string{"-log-level=error"})
	if slog.Default().Enabled(nil, slog.LevelWarn) {
		t.Error("warn level should be disabled after -log-level=error")
	}
}
