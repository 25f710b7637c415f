// Package config loads runtime configuration for the research agent.
// Values come from built-in defaults, then an optional YAML file, then
// environment variables — later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vendor identifies a language model provider.
type Vendor string

const (
	VendorGemini    Vendor = "gemini"
	VendorAnthropic Vendor = "anthropic"
)

// ErrNoModelCredential is returned when no usable LLM API key is present.
// It is reported before any provider call is attempted.
var ErrNoModelCredential = errors.New(
	"no model credential found: set GEMINI_API_KEY (or GOOGLE_API_KEY) or ANTHROPIC_API_KEY")

// Config holds everything the agent needs for one run.
type Config struct {
	ModelVendor Vendor
	ModelName   string
	ModelAPIKey string

	// TavilyAPIKey selects the live search provider. When empty, the
	// deterministic offline provider is used instead of failing.
	TavilyAPIKey string

	InitialQueries  int // queries requested from the query writer
	MaxRefinements  int // reflection loops after the initial search pass
	ResultsPerQuery int // cap on documents taken per search call

	// AuditDSN enables the run trace store when non-empty. SQLite file
	// path by default; postgres:// selects the PostgreSQL backend.
	AuditDSN string
}

// fileConfig mirrors the optional YAML config file schema.
type fileConfig struct {
	Model struct {
		Vendor string `yaml:"vendor"`
		Name   string `yaml:"name"`
	} `yaml:"model"`
	Search struct {
		ResultsPerQuery int `yaml:"results_per_query"`
	} `yaml:"search"`
	Loop struct {
		InitialQueries int `yaml:"initial_queries"`
		MaxRefinements int `yaml:"max_refinements"`
	} `yaml:"loop"`
	Audit struct {
		DSN string `yaml:"dsn"`
	} `yaml:"audit"`
}

func defaults() *Config {
	return &Config{
		InitialQueries:  3,
		MaxRefinements:  2,
		ResultsPerQuery: 3,
	}
}

// Load builds the effective configuration. path may be empty (no config
// file). The model vendor is resolved last: an explicit vendor from file or
// env is honoured, otherwise whichever credential is present wins, Gemini
// before Anthropic.
func Load(path string) (*Config, error) {
	cfg := defaults()

	var vendorHint string
	if path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		vendorHint = fc.Model.Vendor
		if fc.Model.Name != "" {
			cfg.ModelName = fc.Model.Name
		}
		if fc.Search.ResultsPerQuery > 0 {
			cfg.ResultsPerQuery = fc.Search.ResultsPerQuery
		}
		if fc.Loop.InitialQueries > 0 {
			cfg.InitialQueries = fc.Loop.InitialQueries
		}
		if fc.Loop.MaxRefinements > 0 {
			cfg.MaxRefinements = fc.Loop.MaxRefinements
		}
		cfg.AuditDSN = fc.Audit.DSN
	}

	if v := os.Getenv("RESEARCHER_MODEL_VENDOR"); v != "" {
		vendorHint = v
	}
	if v := os.Getenv("RESEARCHER_MODEL_NAME"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("RESEARCHER_AUDIT_DSN"); v != "" {
		cfg.AuditDSN = v
	}
	if v := os.Getenv("RESEARCHER_MAX_REFINEMENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid RESEARCHER_MAX_REFINEMENTS: %q", v)
		}
		cfg.MaxRefinements = n
	}

	cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")

	if err := resolveVendor(cfg, vendorHint); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile parses the YAML config file. Environment variables inside the
// file are expanded before parsing so keys never have to live in the file.
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	return &fc, nil
}

// resolveVendor picks the LLM vendor and credential. An explicit hint must
// be backed by its credential; without a hint, Gemini wins over Anthropic
// when both keys are present.
func resolveVendor(cfg *Config, hint string) error {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("GOOGLE_API_KEY")
	}
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")

	switch strings.ToLower(hint) {
	case "google", "gemini":
		if geminiKey == "" {
			return fmt.Errorf("vendor %q requested but GEMINI_API_KEY/GOOGLE_API_KEY is unset: %w", hint, ErrNoModelCredential)
		}
		cfg.ModelVendor, cfg.ModelAPIKey = VendorGemini, geminiKey
	case "anthropic":
		if anthropicKey == "" {
			return fmt.Errorf("vendor %q requested but ANTHROPIC_API_KEY is unset: %w", hint, ErrNoModelCredential)
		}
		cfg.ModelVendor, cfg.ModelAPIKey = VendorAnthropic, anthropicKey
	case "":
		switch {
		case geminiKey != "":
			cfg.ModelVendor, cfg.ModelAPIKey = VendorGemini, geminiKey
		case anthropicKey != "":
			cfg.ModelVendor, cfg.ModelAPIKey = VendorAnthropic, anthropicKey
		default:
			return ErrNoModelCredential
		}
	default:
		return fmt.Errorf("unknown model vendor: %s (supported: gemini, anthropic)", hint)
	}

	if cfg.ModelName == "" {
		cfg.ModelName = defaultModelName(cfg.ModelVendor)
	}
	return nil
}

func defaultModelName(v Vendor) string {
	switch v {
	case VendorAnthropic:
		return "claude-sonnet-4-0"
	default:
		return "gemini-2.0-flash"
	}
}
