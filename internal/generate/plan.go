package generate

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/promptgen/internal/pack"
)

// Target is the number of prompts requested for one cell.
type Target struct {
	Cell  pack.Cell `json:"cell" yaml:"cell"`
	Count int       `json:"count" yaml:"count"`
}

// Plan is an ordered list of cell targets.
type Plan []Target

// DefaultPlan returns the standard 200-prompt plan: 30/25/25 information
// prompts and 20 for every other cell.
func DefaultPlan() Plan {
	counts := map[pack.Intent][3]int{
		pack.Information: {30, 25, 25},
		pack.Navigation:  {20, 20, 20},
		pack.Transaction: {20, 20, 20},
	}
	plan := make(Plan, 0, 9)
	for _, c := range pack.AllCells() {
		plan = append(plan, Target{Cell: c, Count: counts[c.Intent][c.Difficulty]})
	}
	return plan
}

// EvenPlan splits total across the nine cells; the remainder goes to the
// first cells in canonical order.
func EvenPlan(total int) Plan {
	cells := pack.AllCells()
	base, extra := total/len(cells), total%len(cells)
	plan := make(Plan, 0, len(cells))
	for i, c := range cells {
		n := base
		if i < extra {
			n++
		}
		plan = append(plan, Target{Cell: c, Count: n})
	}
	return plan
}

// ParsePlan builds a plan from "cell=count" entries such as "정보-쉬움=30".
// Cells not mentioned get zero.
func ParsePlan(entries map[string]int) (Plan, error) {
	counts := make(map[pack.Cell]int, len(entries))
	for key, n := range entries {
		c, err := pack.ParseCell(key)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative count for %s: %d", c, n)
		}
		counts[c] = n
	}
	plan := make(Plan, 0, 9)
	for _, c := range pack.AllCells() {
		plan = append(plan, Target{Cell: c, Count: counts[c]})
	}
	return plan, nil
}

// Total returns the number of prompts the plan requests.
func (p Plan) Total() int {
	n := 0
	for _, t := range p {
		n += t.Count
	}
	return n
}

// Counts returns the plan as a cell label -> count map.
func (p Plan) Counts() map[string]int {
	m := make(map[string]int, len(p))
	for _, t := range p {
		m[t.Cell.String()] = t.Count
	}
	return m
}

func (p Plan) String() string {
	parts := make([]string, 0, len(p))
	for _, t := range p {
		parts = append(parts, fmt.Sprintf("%s=%d", t.Cell, t.Count))
	}
	return strings.Join(parts, " ")
}
