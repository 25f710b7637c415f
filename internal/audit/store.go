// Package audit persists a per-run trace of stage transitions. The store is
// strictly opt-in: when no DSN is configured the agent runs with no on-disk
// state at all.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Event is one recorded stage transition.
type Event struct {
	RunID     string
	Seq       int
	Stage     string
	Timestamp time.Time
	Detail    map[string]any
}

// Store persists run events to SQLite or PostgreSQL.
type Store struct {
	db         *sql.DB
	isPostgres bool

	mu      sync.Mutex
	nextSeq map[string]int // per-run sequence counter
}

// rebind rewrites a query that uses ? placeholders into one using $N
// placeholders when the store is backed by PostgreSQL.
func rebind(isPostgres bool, query string) string {
	if !isPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// NewStore opens the trace store. A DSN starting with "postgres://" or
// "postgresql://" selects the PostgreSQL backend; anything else is treated
// as a SQLite file path.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = "trace.db"
	}

	isPostgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")

	var db *sql.DB
	var err error

	if isPostgres {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres database: %w", err)
		}
	} else {
		// SQLite: ensure directory exists.
		dir := filepath.Dir(dsn)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create trace directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open trace database: %w", err)
		}
		// WAL keeps concurrent readers cheap (SQLite only).
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, isPostgres: isPostgres, nextSeq: make(map[string]int)}, nil
}

// createTables creates the schema. Timestamps are stored as RFC3339 text so
// both backends scan the same way.
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run_events (
			run_id TEXT NOT NULL,
			seq    INTEGER NOT NULL,
			stage  TEXT NOT NULL,
			ts     TEXT NOT NULL,
			detail TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`)
	return err
}

// Record appends one stage event for the run. Sequence numbers are assigned
// per run in insertion order.
func (s *Store) Record(ctx context.Context, runID, stage string, detail map[string]any) error {
	if detail == nil {
		detail = map[string]any{}
	}
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}

	s.mu.Lock()
	seq := s.nextSeq[runID]
	s.nextSeq[runID] = seq + 1
	s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		rebind(s.isPostgres, `INSERT INTO run_events (run_id, seq, stage, ts, detail) VALUES (?, ?, ?, ?, ?)`),
		runID, seq, stage, time.Now().UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Events returns all events for a run in sequence order.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		rebind(s.isPostgres, `SELECT run_id, seq, stage, ts, detail FROM run_events WHERE run_id = ? ORDER BY seq`),
		runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts, detail string
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Stage, &ts, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(detail), &e.Detail); err != nil {
			return nil, fmt.Errorf("unmarshal detail: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
