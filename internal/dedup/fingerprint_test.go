package dedup

import "testing"

func TestIndex_Add(t *testing.T) {
	idx := NewIndex()

	if idx.ContainsExact("부산 변호사 상담") {
		t.Fatal("empty index should not contain anything")
	}

	idx.Add("부산 변호사 상담")
	idx.Add("부산 변호사 상담")

	if idx.Len() != 1 {
		t.Errorf("expected 1 entry after duplicate add, got %d", idx.Len())
	}
	if !idx.ContainsExact("부산 변호사 상담") {
		t.Error("expected exact match")
	}
	if idx.ContainsExact("부산 변호사 상담?") {
		t.Error("punctuated variant is not an exact match")
	}
}

func TestIndex_ContainsHash(t *testing.T) {
	idx := NewIndex()
	idx.Add("부산 변호사 상담")

	variants := []string{
		"부산 변호사 상담?",
		"부산  변호사   상담.",
		"부산변호사상담!",
		" 부산 변호사 상담 ",
	}
	for _, v := range variants {
		if !idx.ContainsHash(v) {
			t.Errorf("expected canonical hash match for %q", v)
		}
	}

	if idx.ContainsHash("부산 변호사 상담 문의") {
		t.Error("different words should not hash-match")
	}
}

func TestHash_MatchesStrippedMD5(t *testing.T) {
	// md5("abc")
	if got := Hash("a b. c?"); got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("unexpected hash: %s", got)
	}
}

func TestIndex_Seed(t *testing.T) {
	idx := NewIndex()
	added := idx.Seed([]string{"부산 기업법무 상담 문의드립니다", "", "  ", " 부산 기업법무 상담 문의드립니다 ", "새 질문"})

	if added != 2 {
		t.Errorf("expected 2 seeded prompts, got %d", added)
	}
	if !idx.ContainsExact("부산 기업법무 상담 문의드립니다") {
		t.Error("seeded prompt missing")
	}

	prompts := idx.Prompts()
	if len(prompts) != 2 || prompts[0] != "부산 기업법무 상담 문의드립니다" || prompts[1] != "새 질문" {
		t.Errorf("unexpected insertion order: %v", prompts)
	}
}
