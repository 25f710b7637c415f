// Package main implements the researcher CLI. It takes one question on the
// command line, runs the iterative research loop against a language model and
// a web search provider, and prints the cited answer as JSON on stdout.
// Everything else (logs, stage banners) goes to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"researcher/internal/agent"
	"researcher/internal/audit"
	"researcher/internal/config"
	"researcher/internal/logging"
	"researcher/internal/model"
	"researcher/internal/search"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env file is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	remainingArgs := logging.InitLogging(os.Args[1:])

	fs := flag.NewFlagSet("researcher", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to an optional YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: researcher [flags] \"question\"\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(remainingArgs); err != nil {
		return 1
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fs.Usage()
		return 1
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, config.ErrNoModelCredential) {
			slog.Error("no model credential configured", "err", err)
		} else {
			slog.Error("failed to load configuration", "err", err)
		}
		return 1
	}

	llm, err := model.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to create model provider", "err", err)
		return 1
	}
	searcher := search.New(cfg)

	opts := []agent.Option{
		agent.WithInitialQueries(cfg.InitialQueries),
		agent.WithMaxRefinements(cfg.MaxRefinements),
	}
	if cfg.AuditDSN != "" {
		store, err := audit.NewStore(cfg.AuditDSN)
		if err != nil {
			slog.Error("failed to open audit store", "dsn", cfg.AuditDSN, "err", err)
			return 1
		}
		defer store.Close()
		opts = append(opts, agent.WithTracer(store))
	}

	answer, err := agent.New(llm, searcher, opts...).Run(ctx, question)
	if err != nil {
		slog.Error("research run failed", "err", err)
		return 1
	}

	out, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		slog.Error("failed to encode answer", "err", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
