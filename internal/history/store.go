// Package history persists accepted prompts across runs in a SQLite
// database so later runs can avoid re-emitting them.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jackzampolin/promptgen/internal/dedup"
	"github.com/jackzampolin/promptgen/internal/generate"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    pack TEXT NOT NULL,
    started_at TEXT NOT NULL,
    requested INTEGER NOT NULL,
    accepted INTEGER NOT NULL,
    seed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS prompts (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id),
    pack TEXT NOT NULL,
    prompt TEXT NOT NULL,
    hash TEXT NOT NULL,
    intent TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    score REAL NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE(pack, hash)
);
`

// Run is one recorded generation run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Pack      string    `json:"pack" yaml:"pack"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Requested int       `json:"requested" yaml:"requested"`
	Accepted  int       `json:"accepted" yaml:"accepted"`
	Seed      int64     `json:"seed" yaml:"seed"`
}

// Prompt is one accepted prompt of a run.
type Prompt struct {
	Prompt     string
	Hash       string
	Intent     string
	Difficulty string
	Score      float64
}

// Store is a handle to the history database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps the busy_timeout pragma in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FromResult converts a generation result into a run and its prompts.
func FromResult(res *generate.Result, seed int64) (Run, []Prompt) {
	run := Run{
		ID:        res.RunID,
		Pack:      res.Pack,
		StartedAt: res.StartedAt,
		Requested: res.Requested,
		Accepted:  len(res.Accepted),
		Seed:      seed,
	}
	prompts := make([]Prompt, 0, len(res.Accepted))
	for _, a := range res.Accepted {
		prompts = append(prompts, Prompt{
			Prompt:     a.Prompt,
			Hash:       a.Hash,
			Intent:     a.Intent.Label(),
			Difficulty: a.Difficulty.Label(),
			Score:      a.Report.Score,
		})
	}
	return run, prompts
}

// RecordRun stores a run and its prompts in one transaction. Prompts whose
// hash is already recorded are skipped. The transaction is retried while
// the database is locked by another process. It returns the number of new
// prompts.
func (s *Store) RecordRun(ctx context.Context, run Run, prompts []Prompt) (int, error) {
	var inserted int
	err := retry.Do(
		func() error {
			n, err := s.recordRun(ctx, run, prompts)
			if err != nil {
				return err
			}
			inserted = n
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("history database busy, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *Store) recordRun(ctx context.Context, run Run, prompts []Prompt) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id, pack, started_at, requested, accepted, seed) VALUES(?,?,?,?,?,?)`,
		run.ID,
		run.Pack,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Requested,
		run.Accepted,
		run.Seed,
	); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO prompts(run_id, pack, prompt, hash, intent, difficulty, score, created_at) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare prompt insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, p := range prompts {
		hash := p.Hash
		if hash == "" {
			hash = dedup.Hash(p.Prompt)
		}
		res, err := stmt.ExecContext(ctx, run.ID, run.Pack, p.Prompt, hash, p.Intent, p.Difficulty, p.Score, now)
		if err != nil {
			return 0, fmt.Errorf("insert prompt: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// Prompts returns recorded prompts for pack in insertion order. An empty
// pack returns every prompt.
func (s *Store) Prompts(ctx context.Context, pack string) ([]string, error) {
	query := `SELECT prompt FROM prompts ORDER BY id`
	var args []any
	if pack != "" {
		query = `SELECT prompt FROM prompts WHERE pack = ? ORDER BY id`
		args = append(args, pack)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SeedIndex adds the recorded prompts of pack to idx and returns how many
// were new to it.
func (s *Store) SeedIndex(ctx context.Context, idx *dedup.Index, pack string) (int, error) {
	prompts, err := s.Prompts(ctx, pack)
	if err != nil {
		return 0, err
	}
	return idx.Seed(prompts), nil
}
