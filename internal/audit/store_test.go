package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "trace_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewStore(filepath.Join(tmpDir, "trace.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndReadBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stages := []string{"INIT", "SEARCHING", "REFLECTING", "SYNTHESIZING", "DONE"}
	for i, stage := range stages {
		err := store.Record(ctx, "run-1", stage, map[string]any{"cycle": i})
		if err != nil {
			t.Fatalf("record %s: %v", stage, err)
		}
	}

	events, err := store.Events(ctx, "run-1")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != len(stages) {
		t.Fatalf("got %d events, want %d", len(events), len(stages))
	}
	for i, e := range events {
		if e.Stage != stages[i] {
			t.Errorf("event %d stage = %s, want %s", i, e.Stage, stages[i])
		}
		if e.Seq != i {
			t.Errorf("event %d seq = %d, want %d", i, e.Seq, i)
		}
		if e.RunID != "run-1" {
			t.Errorf("event %d run id = %s, want run-1", i, e.RunID)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("event %d has zero timestamp", i)
		}
	}
}

func TestStore_RunsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, "run-a", "INIT", nil); err != nil {
		t.Fatalf("record run-a: %v", err)
	}
	if err := store.Record(ctx, "run-b", "INIT", nil); err != nil {
		t.Fatalf("record run-b: %v", err)
	}
	if err := store.Record(ctx, "run-a", "DONE", nil); err != nil {
		t.Fatalf("record run-a DONE: %v", err)
	}

	events, err := store.Events(ctx, "run-a")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("run-a: got %d events, want 2", len(events))
	}
	if events[1].Stage != "DONE" {
		t.Errorf("run-a last stage = %s, want DONE", events[1].Stage)
	}

	events, err = store.Events(ctx, "run-b")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("run-b: got %d events, want 1", len(events))
	}
}

func TestStore_DetailRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	detail := map[string]any{"queries": []any{"a", "b"}, "documents": float64(4)}
	if err := store.Record(ctx, "run-d", "SEARCHING", detail); err != nil {
		t.Fatalf("record: %v", err)
	}

	events, err := store.Events(ctx, "run-d")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0].Detail
	if got["documents"] != float64(4) {
		t.Errorf("detail documents = %v, want 4", got["documents"])
	}
	qs, ok := got["queries"].([]any)
	if !ok || len(qs) != 2 {
		t.Errorf("detail queries = %v, want two entries", got["queries"])
	}
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	if got := rebind(false, q); got != q {
		t.Errorf("sqlite rebind changed query: %s", got)
	}
	want := "INSERT INTO t (a, b) VALUES ($1, $2)"
	if got := rebind(true, q); got != want {
		t.Errorf("postgres rebind = %s, want %s", got, want)
	}
}
