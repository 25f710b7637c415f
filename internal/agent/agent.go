// Package agent implements the research loop: query generation, concurrent
// web search, reflection, and synthesis, driven by a bounded iterative state
// machine so termination is provable by construction.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"researcher/internal/model"
	"researcher/internal/search"
)

// Stage names, logged on transitions and recorded in the run trace.
const (
	StageInit         = "INIT"
	StageSearching    = "SEARCHING"
	StageReflecting   = "REFLECTING"
	StageSynthesizing = "SYNTHESIZING"
	StageDone         = "DONE"
)

// Tracer receives stage transition events. *audit.Store satisfies it.
type Tracer interface {
	Record(ctx context.Context, runID, stage string, detail map[string]any) error
}

// Orchestrator owns the run state and drives the stages in sequence.
type Orchestrator struct {
	llm            model.Provider
	searcher       search.Provider
	initialQueries int
	maxRefinements int
	tracer         Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithInitialQueries sets how many queries the query writer is asked for.
func WithInitialQueries(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.initialQueries = n
		}
	}
}

// WithMaxRefinements sets the cap on reflection-driven search re-entries.
func WithMaxRefinements(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxRefinements = n
		}
	}
}

// WithTracer attaches a run trace sink.
func WithTracer(t Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// New constructs an Orchestrator with optional configuration.
func New(llm model.Provider, searcher search.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		llm:            llm,
		searcher:       searcher,
		initialQueries: 3,
		maxRefinements: 2,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run answers the question. Deterministic modulo provider non-determinism
// and network outcomes.
func (o *Orchestrator) Run(ctx context.Context, question string) (Answer, error) {
	answer, _, err := o.run(ctx, question)
	return answer, err
}

func (o *Orchestrator) run(ctx context.Context, question string) (Answer, *RunState, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, nil, errors.New("question is empty")
	}
	if o.llm == nil {
		return Answer{}, nil, errors.New("no model provider configured")
	}
	if o.searcher == nil {
		return Answer{}, nil, errors.New("no search provider configured")
	}

	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	state := newRunState(question)

	log.Info("run started", "question", question)
	o.trace(ctx, runID, StageInit, map[string]any{"question": question})

	banner("Generating queries")
	queries, err := o.generateQueries(ctx, question)
	if err != nil {
		return Answer{}, state, err
	}
	state.Queries = queries

	var priorQueries []string
	stage := StageSearching
	for stage != StageSynthesizing {
		switch stage {
		case StageSearching:
			banner(fmt.Sprintf("Searching (%d queries)", len(state.Queries)))
			added := o.searchAll(ctx, state, log)
			log.Info("search pass complete",
				"queries", len(state.Queries), "added", added, "documents", len(state.Documents))
			o.trace(ctx, runID, StageSearching, map[string]any{
				"queries":   state.Queries,
				"added":     added,
				"documents": len(state.Documents),
			})
			priorQueries = append(priorQueries, state.Queries...)
			state.Queries = nil // consumed by this pass
			stage = StageReflecting

		case StageReflecting:
			banner("Reflecting on results")
			verdict, err := o.reflect(ctx, state, priorQueries)
			if err != nil {
				return Answer{}, state, err
			}
			log.Info("reflection verdict",
				"sufficient", verdict.Sufficient, "refined", len(verdict.RefinedQueries), "cycle", state.Cycle)
			o.trace(ctx, runID, StageReflecting, map[string]any{
				"sufficient":      verdict.Sufficient,
				"refined_queries": verdict.RefinedQueries,
				"cycle":           state.Cycle,
			})

			switch {
			case verdict.Sufficient:
				stage = StageSynthesizing
			case state.Cycle >= o.maxRefinements:
				// Insufficiency is never fatal, only bounded: synthesize
				// from whatever has accumulated.
				log.Info("refinement cap reached; forcing synthesis", "cycle", state.Cycle)
				stage = StageSynthesizing
			case len(verdict.RefinedQueries) == 0:
				log.Warn("insufficient verdict carried no refined queries; forcing synthesis")
				stage = StageSynthesizing
			default:
				state.Cycle++
				state.Queries = verdict.RefinedQueries
				stage = StageSearching
			}
		}
	}

	banner("Synthesizing answer")
	answer, err := o.synthesize(ctx, state)
	if err != nil {
		return Answer{}, state, err
	}
	o.trace(ctx, runID, StageSynthesizing, map[string]any{
		"citations": len(answer.Citations),
		"documents": len(state.Documents),
	})

	log.Info("run complete", "citations", len(answer.Citations), "cycles", state.Cycle)
	o.trace(ctx, runID, StageDone, map[string]any{"cycles": state.Cycle})
	return answer, state, nil
}

// trace records a stage event when a tracer is attached. Trace failures are
// logged but never fail the run.
func (o *Orchestrator) trace(ctx context.Context, runID, stage string, detail map[string]any) {
	if o.tracer == nil {
		return
	}
	if err := o.tracer.Record(ctx, runID, stage, detail); err != nil {
		slog.Warn("trace record failed", "stage", stage, "err", err)
	}
}

// banner prints a stage marker to stderr; stdout stays reserved for the
// final JSON result.
func banner(msg string) {
	fmt.Fprintln(os.Stderr, color.CyanString("--- %s ---", msg))
}
