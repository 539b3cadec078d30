package balance

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/samber/lo"

	"github.com/jackzampolin/promptgen/internal/table"
)

// Options configures Select. Total is the final row count; zero means the
// quota total. Random samples rows instead of taking the highest scores.
type Options struct {
	Quota            Quota
	Total            int
	IntentColumn     string
	DifficultyColumn string
	ScoreColumn      string
	PreferIntent     string
	Random           bool
	Rand             *rand.Rand
}

// DefaultOptions returns the options for review result files.
func DefaultOptions() Options {
	return Options{
		Quota:            DefaultQuota(),
		IntentColumn:     "추출된_의도",
		DifficultyColumn: "추출된_난이도",
		ScoreColumn:      "검수_점수",
		PreferIntent:     "정보",
	}
}

// CellReport describes the selection for one cell.
type CellReport struct {
	Intent     string  `json:"intent" yaml:"intent"`
	Difficulty string  `json:"difficulty" yaml:"difficulty"`
	Target     int     `json:"target" yaml:"target"`
	Available  int     `json:"available" yaml:"available"`
	Selected   int     `json:"selected" yaml:"selected"`
	MinScore   float64 `json:"min_score" yaml:"min_score"`
	MaxScore   float64 `json:"max_score" yaml:"max_score"`
	AvgScore   float64 `json:"avg_score" yaml:"avg_score"`
}

// Report summarizes a Select call.
type Report struct {
	Input    int          `json:"input" yaml:"input"`
	Target   int          `json:"target" yaml:"target"`
	Selected int          `json:"selected" yaml:"selected"`
	ToppedUp int          `json:"topped_up" yaml:"topped_up"`
	Trimmed  int          `json:"trimmed" yaml:"trimmed"`
	Cells    []CellReport `json:"cells" yaml:"cells"`
}

type row struct {
	idx   int
	score float64
}

// Select picks rows per the quota. Each cell takes its highest-scoring rows
// (or a random sample). A shortfall against the total is topped up from the
// preferred intent when it has enough rows left, otherwise from all remaining
// rows. A surplus is trimmed by score.
func Select(t *table.Table, opts Options) (*table.Table, *Report, error) {
	intentIdx := t.Index(opts.IntentColumn)
	if intentIdx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", table.ErrColumnNotFound, opts.IntentColumn)
	}
	diffIdx := t.Index(opts.DifficultyColumn)
	if diffIdx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", table.ErrColumnNotFound, opts.DifficultyColumn)
	}
	if opts.Random && opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(42))
	}
	total := opts.Total
	if total <= 0 {
		total = opts.Quota.Total()
	}

	rows := make([]row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = row{idx: i, score: ParseScore(t.Get(r, opts.ScoreColumn))}
	}
	cellOf := func(r row) (string, string) {
		return t.Get(t.Rows[r.idx], opts.IntentColumn), t.Get(t.Rows[r.idx], opts.DifficultyColumn)
	}

	rep := &Report{Input: len(t.Rows), Target: total}
	taken := make(map[int]bool)
	var selected []row

	for _, q := range opts.Quota {
		subset := lo.Filter(rows, func(r row, _ int) bool {
			i, d := cellOf(r)
			return i == q.Intent && d == q.Difficulty
		})
		picked := pick(subset, q.Count, opts)
		for _, r := range picked {
			taken[r.idx] = true
		}
		selected = append(selected, picked...)
		rep.Cells = append(rep.Cells, cellReport(q, len(subset), picked))
	}

	if missing := total - len(selected); missing > 0 {
		rest := lo.Filter(rows, func(r row, _ int) bool { return !taken[r.idx] })
		pool := lo.Filter(rest, func(r row, _ int) bool {
			i, _ := cellOf(r)
			return i == opts.PreferIntent
		})
		if len(pool) < missing {
			pool = rest
		}
		extra := pick(pool, missing, opts)
		selected = append(selected, extra...)
		rep.ToppedUp = len(extra)
	}

	if surplus := len(selected) - total; surplus > 0 {
		keep := make(map[int]bool, total)
		for _, r := range pick(selected, total, opts) {
			keep[r.idx] = true
		}
		selected = lo.Filter(selected, func(r row, _ int) bool { return keep[r.idx] })
		rep.Trimmed = surplus
	}

	out := table.New(t.Header...)
	out.Rows = make([][]string, 0, len(selected))
	for _, r := range selected {
		out.Rows = append(out.Rows, t.Rows[r.idx])
	}
	rep.Selected = len(selected)
	return out, rep, nil
}

// pick returns up to n rows: the highest scores with ties in input order, or
// a random sample.
func pick(rows []row, n int, opts Options) []row {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	sorted := append([]row(nil), rows...)
	if opts.Random {
		opts.Rand.Shuffle(len(sorted), func(i, j int) { sorted[i], sorted[j] = sorted[j], sorted[i] })
	} else {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func cellReport(q CellQuota, available int, picked []row) CellReport {
	c := CellReport{
		Intent:     q.Intent,
		Difficulty: q.Difficulty,
		Target:     q.Count,
		Available:  available,
		Selected:   len(picked),
	}
	if len(picked) == 0 {
		return c
	}
	scores := lo.Map(picked, func(r row, _ int) float64 { return r.score })
	c.MinScore = lo.Min(scores)
	c.MaxScore = lo.Max(scores)
	c.AvgScore = math.Round(lo.Sum(scores)/float64(len(scores))*1000) / 1000
	return c
}
