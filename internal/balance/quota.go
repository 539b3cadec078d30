// Package balance selects a subset of a reviewed result file so that each
// intent/difficulty cell contributes a fixed number of rows.
package balance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CellQuota is the number of rows to keep for one intent/difficulty pair.
type CellQuota struct {
	Intent     string `json:"intent" yaml:"intent"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	Count      int    `json:"count" yaml:"count"`
}

// Quota is an ordered list of cell quotas.
type Quota []CellQuota

// DefaultQuota keeps 250 rows weighted toward information prompts.
func DefaultQuota() Quota {
	return Quota{
		{"정보", "쉬움", 67},
		{"정보", "보통", 67},
		{"정보", "어려움", 66},
		{"탐색", "쉬움", 8},
		{"탐색", "보통", 9},
		{"탐색", "어려움", 8},
		{"거래", "쉬움", 8},
		{"거래", "보통", 9},
		{"거래", "어려움", 8},
	}
}

// Total returns the sum of the cell counts.
func (q Quota) Total() int {
	n := 0
	for _, c := range q {
		n += c.Count
	}
	return n
}

// ParseQuota reads "intent-difficulty=count" entries separated by commas,
// e.g. "정보-쉬움=67,탐색-보통=9".
func ParseQuota(s string) (Quota, error) {
	var q Quota
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid quota entry %q: want intent-difficulty=count", part)
		}
		intent, diff, ok := strings.Cut(strings.TrimSpace(key), "-")
		if !ok {
			return nil, fmt.Errorf("invalid quota cell %q", key)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid quota count %q", val)
		}
		q = append(q, CellQuota{Intent: intent, Difficulty: diff, Count: n})
	}
	if len(q) == 0 {
		return nil, fmt.Errorf("empty quota")
	}
	return q, nil
}

var firstNumber = regexp.MustCompile(`\d+\.?\d*`)

// DefaultScore is used for cells without a number.
const DefaultScore = 1.0

// ParseScore returns the first number in s, or DefaultScore when there is none.
func ParseScore(s string) float64 {
	m := firstNumber.FindString(s)
	if m == "" {
		return DefaultScore
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return DefaultScore
	}
	return v
}
