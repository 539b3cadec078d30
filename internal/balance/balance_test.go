package balance

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/jackzampolin/promptgen/internal/table"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0.85", 0.85},
		{"점수: 0.9 / 1.0", 0.9},
		{"[0.75, 0.8]", 0.75},
		{"7", 7},
		{"", DefaultScore},
		{"없음", DefaultScore},
	}
	for _, tt := range tests {
		if got := ParseScore(tt.in); got != tt.want {
			t.Errorf("ParseScore(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultQuota(t *testing.T) {
	if got := DefaultQuota().Total(); got != 250 {
		t.Errorf("expected 250, got %d", got)
	}
}

func TestParseQuota(t *testing.T) {
	q, err := ParseQuota("정보-쉬움=3, 거래-어려움=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q) != 2 || q[1] != (CellQuota{"거래", "어려움", 2}) || q.Total() != 5 {
		t.Errorf("unexpected quota: %+v", q)
	}

	for _, bad := range []string{"", "정보-쉬움", "정보=3", "정보-쉬움=x", "정보-쉬움=-1"} {
		if _, err := ParseQuota(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// fixture builds a review table; each row is intent, difficulty, score.
func fixture(rows ...[3]string) *table.Table {
	t := table.New("원본_행", "질문", "추출된_의도", "추출된_난이도", "검수_점수")
	for i, r := range rows {
		n := strconv.Itoa(i + 1)
		t.Rows = append(t.Rows, []string{n, "q" + n, r[0], r[1], r[2]})
	}
	return t
}

func column(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	col, err := tbl.Column(name)
	if err != nil {
		t.Fatal(err)
	}
	return col
}

func TestSelect_TopByScore(t *testing.T) {
	tbl := fixture(
		[3]string{"정보", "쉬움", "0.7"},
		[3]string{"정보", "쉬움", "0.9"},
		[3]string{"정보", "쉬움", "0.8"},
		[3]string{"거래", "쉬움", "0.6"},
		[3]string{"거래", "쉬움", "0.95"},
	)
	opts := DefaultOptions()
	opts.Quota = Quota{{"정보", "쉬움", 2}, {"거래", "쉬움", 1}}

	out, rep, err := Select(tbl, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := column(t, out, "질문")
	want := []string{"q2", "q3", "q5"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if rep.Cells[0].Available != 3 || rep.Cells[0].MinScore != 0.8 || rep.Cells[0].MaxScore != 0.9 {
		t.Errorf("unexpected cell report: %+v", rep.Cells[0])
	}
	if rep.ToppedUp != 0 || rep.Trimmed != 0 {
		t.Errorf("unexpected adjustments: %+v", rep)
	}
}

func TestSelect_TopUpFromPreferredIntent(t *testing.T) {
	tbl := fixture(
		[3]string{"정보", "쉬움", "0.9"},
		[3]string{"정보", "보통", "0.8"},
		[3]string{"정보", "보통", "0.85"},
		[3]string{"탐색", "쉬움", "0.99"},
	)
	opts := DefaultOptions()
	// 탐색-어려움 has no rows, so one slot is topped up.
	opts.Quota = Quota{{"정보", "쉬움", 1}, {"탐색", "어려움", 1}}

	out, rep, err := Select(tbl, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.ToppedUp != 1 {
		t.Errorf("expected 1 topped up row, got %d", rep.ToppedUp)
	}
	got := column(t, out, "질문")
	if len(got) != 2 || got[1] != "q3" {
		t.Errorf("expected top-up from 정보 by score, got %v", got)
	}
}

func TestSelect_TopUpFallsBackToAllRows(t *testing.T) {
	tbl := fixture(
		[3]string{"정보", "쉬움", "0.9"},
		[3]string{"탐색", "쉬움", "0.5"},
		[3]string{"거래", "보통", "0.7"},
	)
	opts := DefaultOptions()
	opts.Quota = Quota{{"정보", "쉬움", 1}}
	opts.Total = 3

	out, rep, err := Select(tbl, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 3 || rep.ToppedUp != 2 {
		t.Errorf("expected all rows after top-up, got %d (%+v)", out.Len(), rep)
	}
	got := column(t, out, "질문")
	if got[1] != "q3" || got[2] != "q2" {
		t.Errorf("expected top-up by score, got %v", got)
	}
}

func TestSelect_TrimToTotal(t *testing.T) {
	tbl := fixture(
		[3]string{"정보", "쉬움", "0.9"},
		[3]string{"정보", "쉬움", "0.6"},
		[3]string{"거래", "쉬움", "0.8"},
	)
	opts := DefaultOptions()
	opts.Quota = Quota{{"정보", "쉬움", 2}, {"거래", "쉬움", 1}}
	opts.Total = 2

	out, rep, err := Select(tbl, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Trimmed != 1 || rep.Selected != 2 {
		t.Errorf("unexpected report: %+v", rep)
	}
	got := column(t, out, "질문")
	if len(got) != 2 || got[0] != "q1" || got[1] != "q3" {
		t.Errorf("expected lowest score trimmed, got %v", got)
	}
}

func TestSelect_RandomIsSeeded(t *testing.T) {
	var rows [][3]string
	for i := 0; i < 30; i++ {
		rows = append(rows, [3]string{"정보", "쉬움", "0.8"})
	}
	tbl := fixture(rows...)

	run := func() []string {
		opts := DefaultOptions()
		opts.Quota = Quota{{"정보", "쉬움", 5}}
		opts.Random = true
		opts.Rand = rand.New(rand.NewSource(7))
		out, _, err := Select(tbl, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return column(t, out, "질문")
	}

	a, b := run(), run()
	if len(a) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different samples: %v vs %v", a, b)
		}
	}
}

func TestSelect_MissingColumns(t *testing.T) {
	tbl := table.New("질문")
	if _, _, err := Select(tbl, DefaultOptions()); !errors.Is(err, table.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}
