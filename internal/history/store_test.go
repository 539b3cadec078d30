package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/promptgen/internal/dedup"
	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/pack"
	"github.com/jackzampolin/promptgen/internal/quality"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sub", "history.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	run := Run{ID: "run-1", Pack: "dongrae", StartedAt: time.Now(), Requested: 3, Accepted: 2, Seed: 42}
	prompts := []Prompt{
		{Prompt: "부산 기업법무 상담 문의드립니다", Intent: "정보", Difficulty: "쉬움", Score: 0.85},
		{Prompt: "해운대 노동법무 변호사 추천", Intent: "탐색", Difficulty: "보통", Score: 0.9},
	}

	n, err := s.RecordRun(ctx, run, prompts)
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}

	// The same prompt with different punctuation hashes the same and is skipped.
	run2 := Run{ID: "run-2", Pack: "dongrae", StartedAt: time.Now(), Requested: 1, Accepted: 1}
	n, err = s.RecordRun(ctx, run2, []Prompt{{Prompt: "부산 기업법무 상담 문의드립니다?", Intent: "정보", Difficulty: "쉬움", Score: 0.8}})
	if err != nil {
		t.Fatalf("record second run: %v", err)
	}
	if n != 0 {
		t.Errorf("expected duplicate hash to be skipped, got %d inserted", n)
	}

	if _, err := s.RecordRun(ctx, run, nil); err == nil {
		t.Error("expected error for duplicate run id")
	}
}

func TestRecordRun_SamePromptInAnotherPack(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	const shared = "부산 굿즈 제작 문의드립니다"

	for _, run := range []Run{
		{ID: "a", Pack: "dongrae", StartedAt: time.Now()},
		{ID: "b", Pack: "iovu", StartedAt: time.Now()},
	} {
		n, err := s.RecordRun(ctx, run, []Prompt{{Prompt: shared, Intent: "정보", Difficulty: "쉬움", Score: 0.8}})
		if err != nil {
			t.Fatalf("record run %s: %v", run.ID, err)
		}
		if n != 1 {
			t.Errorf("run %s: expected 1 inserted, got %d", run.ID, n)
		}
	}

	idx := dedup.NewIndex()
	n, err := s.SeedIndex(ctx, idx, "iovu")
	if err != nil {
		t.Fatalf("seed index: %v", err)
	}
	if n != 1 || !idx.ContainsExact(shared) {
		t.Errorf("expected shared prompt seeded for iovu, got %d", n)
	}
}

func TestSeedIndex(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.RecordRun(ctx, Run{ID: "a", Pack: "dongrae", StartedAt: time.Now()}, []Prompt{
		{Prompt: "부산 기업법무 상담 문의드립니다", Intent: "정보", Difficulty: "쉬움", Score: 0.8},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordRun(ctx, Run{ID: "b", Pack: "iovu", StartedAt: time.Now()}, []Prompt{
		{Prompt: "iOVU 후드티 가격 알려줘", Intent: "거래", Difficulty: "쉬움", Score: 0.8},
	}); err != nil {
		t.Fatal(err)
	}

	idx := dedup.NewIndex()
	n, err := s.SeedIndex(ctx, idx, "dongrae")
	if err != nil {
		t.Fatalf("seed index: %v", err)
	}
	if n != 1 || !idx.ContainsExact("부산 기업법무 상담 문의드립니다") {
		t.Errorf("expected dongrae prompt in index, got %d", n)
	}
	if idx.ContainsExact("iOVU 후드티 가격 알려줘") {
		t.Error("other pack's prompts should not be seeded")
	}

	all, err := s.Prompts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 prompts, got %d", len(all))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	empty, err := s.Stats(ctx, 5)
	if err != nil {
		t.Fatalf("stats on empty db: %v", err)
	}
	if empty.Runs != 0 || empty.Prompts != 0 || empty.AvgScore != 0 {
		t.Errorf("unexpected empty stats: %+v", empty)
	}

	older := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	if _, err := s.RecordRun(ctx, Run{ID: "old", Pack: "dongrae", StartedAt: older}, []Prompt{
		{Prompt: "a b c", Intent: "정보", Difficulty: "쉬움", Score: 0.8},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordRun(ctx, Run{ID: "new", Pack: "iovu", StartedAt: newer}, []Prompt{
		{Prompt: "d e f", Intent: "정보", Difficulty: "보통", Score: 1.0},
		{Prompt: "g h i", Intent: "거래", Difficulty: "보통", Score: 0.9},
	}); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Runs != 2 || st.Prompts != 3 {
		t.Errorf("unexpected totals: %+v", st)
	}
	if st.ByPack["iovu"] != 2 || st.ByIntent["정보"] != 2 {
		t.Errorf("unexpected groups: %+v", st)
	}
	if st.AvgScore < 0.899 || st.AvgScore > 0.901 {
		t.Errorf("expected average 0.9, got %v", st.AvgScore)
	}
	if len(st.RecentRuns) != 1 || st.RecentRuns[0].ID != "new" || !st.RecentRuns[0].StartedAt.Equal(newer) {
		t.Errorf("unexpected recent runs: %+v", st.RecentRuns)
	}
}

func TestFromResult(t *testing.T) {
	res := &generate.Result{
		RunID:     "r",
		Pack:      "dongrae",
		Requested: 2,
		Accepted: []generate.Accepted{{
			Candidate: pack.Candidate{Prompt: "부산 상담", Intent: pack.Transaction, Difficulty: pack.Medium},
			Hash:      dedup.Hash("부산 상담"),
			Report:    quality.Report{Score: 0.8},
		}},
	}

	run, prompts := FromResult(res, 7)
	if run.ID != "r" || run.Accepted != 1 || run.Seed != 7 {
		t.Errorf("unexpected run: %+v", run)
	}
	if len(prompts) != 1 || prompts[0].Intent != "거래" || prompts[0].Difficulty != "보통" {
		t.Errorf("unexpected prompts: %+v", prompts)
	}
}

func TestIsBusy(t *testing.T) {
	if isBusy(errors.New("plain")) {
		t.Error("plain errors are not busy errors")
	}
	if isBusy(nil) {
		t.Error("nil is not a busy error")
	}
}
