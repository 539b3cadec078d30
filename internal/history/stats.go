package history

import (
	"context"
	"fmt"
	"time"
)

// Stats summarizes the history database.
type Stats struct {
	Runs       int            `json:"runs" yaml:"runs"`
	Prompts    int            `json:"prompts" yaml:"prompts"`
	ByPack     map[string]int `json:"by_pack" yaml:"by_pack"`
	ByIntent   map[string]int `json:"by_intent" yaml:"by_intent"`
	AvgScore   float64        `json:"avg_score" yaml:"avg_score"`
	RecentRuns []Run          `json:"recent_runs" yaml:"recent_runs"`
}

// Stats returns totals and the most recent runs.
func (s *Store) Stats(ctx context.Context, recent int) (*Stats, error) {
	st := &Stats{
		ByPack:   make(map[string]int),
		ByIntent: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.Runs); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM prompts`).Scan(&st.Prompts, &st.AvgScore); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	if err := s.countBy(ctx, "pack", st.ByPack); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "intent", st.ByIntent); err != nil {
		return nil, err
	}

	runs, err := s.recentRuns(ctx, recent)
	if err != nil {
		return nil, err
	}
	st.RecentRuns = runs
	return st, nil
}

// countBy groups prompts by a fixed column name.
func (s *Store) countBy(ctx context.Context, column string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM prompts GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("group prompts by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		into[key] = n
	}
	return rows.Err()
}

func (s *Store) recentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pack, started_at, requested, accepted, seed FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Pack, &started, &r.Requested, &r.Accepted, &r.Seed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
