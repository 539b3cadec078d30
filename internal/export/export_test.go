package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/pack"
	"github.com/jackzampolin/promptgen/internal/quality"
	"github.com/jackzampolin/promptgen/internal/table"
)

func testPack(t *testing.T) *pack.Pack {
	t.Helper()
	r, err := pack.NewRegistry("", nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	p, err := r.Load("dongrae")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return p
}

func testRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Number:     i + 1,
			Prompt:     "부산 기업법무 상담 " + strings.Repeat("문의 ", i+1),
			Intent:     "정보",
			Difficulty: "쉬움",
			Domain:     "동래",
			Language:   "KO",
			WordCount:  4 + i,
			Score:      0.85,
			Keywords:   "법무분야, 지역",
		}
	}
	return records
}

func TestRecords(t *testing.T) {
	p := testPack(t)
	res := &generate.Result{
		RunID: "run-1",
		Accepted: []generate.Accepted{{
			Candidate: pack.Candidate{
				Prompt:     "부산 기업법무 변호사 알려주세요",
				Intent:     pack.Navigation,
				Difficulty: pack.Hard,
				Template:   "{{.region}} {{.area}} 변호사 알려주세요",
				Parameters: map[string]string{"region": "부산", "area": "기업법무"},
			},
			Report: quality.Report{Score: 0.75, WordCount: 4, CategoriesHit: []string{"법무분야", "지역"}},
		}},
	}

	records := Records(res, p)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Number != 1 || r.Intent != "탐색" || r.Difficulty != "어려움" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Domain != "동래" || r.Language != "KO" {
		t.Errorf("unexpected domain/language: %s/%s", r.Domain, r.Language)
	}
	if r.Keywords != "법무분야, 지역" {
		t.Errorf("unexpected keywords: %s", r.Keywords)
	}
	if r.Brand == nil || r.Brand.Name != "법무법인 동래" {
		t.Errorf("expected brand info, got %+v", r.Brand)
	}
	if r.RunID != "run-1" || r.Parameters["area"] != "기업법무" {
		t.Errorf("unexpected JSON fields: %+v", r)
	}
}

func TestRecord_Row(t *testing.T) {
	r := Record{Number: 3, Prompt: "p", Intent: "거래", Difficulty: "보통", Domain: "iOVU", Language: "KO", WordCount: 7, Score: 0.8, Keywords: "기본"}
	got := strings.Join(r.Row(), "|")
	if got != "3|p|거래|보통|iOVU|KO|7|0.800|기본" {
		t.Errorf("unexpected row: %s", got)
	}
	if len(r.Row()) != len(CSVHeader) {
		t.Error("row and header lengths differ")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRecords(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\xef\xbb\xbf")) {
		t.Error("expected BOM")
	}

	tbl, err := table.Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(tbl.Header, ",") != strings.Join(CSVHeader, ",") {
		t.Errorf("unexpected header: %v", tbl.Header)
	}
	if tbl.Len() != 2 || tbl.Get(tbl.Rows[1], "예상점수") != "0.850" {
		t.Errorf("unexpected rows: %v", tbl.Rows)
	}
}

func TestWriteJSON(t *testing.T) {
	records := testRecords(1)
	records[0].RunID = "abc"
	records[0].Brand = &pack.Brand{Name: "iOVU"}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded[0]["run_id"] != "abc" {
		t.Errorf("missing run_id: %v", decoded[0])
	}
	brand, ok := decoded[0]["brand_info"].(map[string]any)
	if !ok || brand["name"] != "iOVU" {
		t.Errorf("missing brand_info: %v", decoded[0])
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "csv": FormatCSV, "json": FormatJSON, "both": FormatBoth} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error")
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 7, 4, 16, 8, 33, 0, time.UTC)
	if got := Filename("dongrae_optimized", "csv", ts); got != "dongrae_optimized_20250704_160833.csv" {
		t.Errorf("unexpected filename: %s", got)
	}
}

func fixedClock() time.Time {
	return time.Date(2025, 7, 4, 16, 8, 33, 0, time.UTC)
}

func TestExporter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := &Exporter{Dir: dir, Prefix: "run", Format: FormatBoth, Now: fixedClock}

	paths, err := e.Save(testRecords(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "run_20250704_160833.csv"),
		filepath.Join(dir, "run_20250704_160833.json"),
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected paths: %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing file %s: %v", p, err)
		}
	}
}

func TestExporter_SaveBatches(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{Dir: dir, Prefix: "iovu_batch", Now: fixedClock}

	paths, err := e.SaveBatches(testRecords(5), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 3 batch files and 1 integrated file, got %v", paths)
	}
	if filepath.Base(paths[2]) != "iovu_batch_batch003_20250704_160833.csv" {
		t.Errorf("unexpected batch name: %s", paths[2])
	}
	if filepath.Base(paths[3]) != "iovu_batch_integrated_20250704_160833.csv" {
		t.Errorf("unexpected integrated name: %s", paths[3])
	}

	last, err := table.ReadFile(paths[2])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.Len() != 1 || last.Get(last.Rows[0], "번호") != "1" {
		t.Errorf("expected renumbered single-row batch, got %v", last.Rows)
	}

	all, err := table.ReadFile(paths[3])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Len() != 5 {
		t.Errorf("expected 5 integrated rows, got %d", all.Len())
	}

	if _, err := e.SaveBatches(testRecords(1), 0); err == nil {
		t.Error("expected error for zero batch size")
	}
}

func TestLoadSeed_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.csv")
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRecords(2)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	seeds, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 2 || seeds[0] != "부산 기업법무 상담 문의" {
		t.Errorf("unexpected seeds: %q", seeds)
	}
}

func TestLoadSeed_FallbackColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.csv")
	content := "id,prompt\n1,첫 질문\n2,\n3, 둘째 질문 \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	seeds, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(seeds, "|") != "첫 질문|둘째 질문" {
		t.Errorf("unexpected seeds: %q", seeds)
	}
}

func TestLoadSeed_JSON(t *testing.T) {
	dir := t.TempDir()

	arr := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(arr, []byte(`[{"prompt":"a b"},{"prompt":"c d"},{"other":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	seeds, err := LoadSeed(arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(seeds, "|") != "a b|c d" {
		t.Errorf("unexpected seeds: %q", seeds)
	}

	obj := filepath.Join(dir, "one.json")
	if err := os.WriteFile(obj, []byte(`{"prompt":"단일 질문"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	seeds, err = LoadSeed(obj)
	if err != nil || len(seeds) != 1 {
		t.Errorf("unexpected result: %q, %v", seeds, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"prompt":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeed(bad); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestLoadSeed_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSeed(filepath.Join(dir, "missing.csv")); !errors.Is(err, ErrSeedNotFound) {
		t.Errorf("expected ErrSeedNotFound, got %v", err)
	}

	path := filepath.Join(dir, "nocol.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeed(path); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}
