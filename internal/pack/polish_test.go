package pack

import "testing"

func TestPolisher(t *testing.T) {
	spec := PolishSpec{
		ShortSuffix:  "자세히 알려주세요",
		TrailingAsk:  "알려주세요",
		Replacements: []Replacement{{From: "에 대한", To: " 관련"}},
	}
	p := NewPolisher(spec, 5, 8)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pads short prompt",
			in:   "부산 변호사",
			want: "부산 변호사 자세히 알려주세요",
		},
		{
			name: "collapses whitespace when padding",
			in:   "부산   변호사 ",
			want: "부산 변호사 자세히 알려주세요",
		},
		{
			name: "leaves in-range prompt",
			in:   "부산 기업법무 변호사 추천해 주세요",
			want: "부산 기업법무 변호사 추천해 주세요",
		},
		{
			name: "truncates long prompt",
			in:   "하나 둘 셋 넷 다섯 여섯 일곱 여덟 아홉 열",
			want: "하나 둘 셋 넷 다섯 여섯 알려주세요",
		},
		{
			name: "rewrites phrasing",
			in:   "계약에 대한 부산 변호사 상담 안내",
			want: "계약 관련 부산 변호사 상담 안내",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Polish(tt.in)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPolisher_NoSuffix(t *testing.T) {
	p := NewPolisher(PolishSpec{}, 5, 30)
	if got := p.Polish("짧은 질문"); got != "짧은 질문" {
		t.Errorf("expected prompt unchanged, got %q", got)
	}
}

func TestPolisher_ReplacementsRunInOnePass(t *testing.T) {
	spec := PolishSpec{
		Replacements: []Replacement{
			{From: "문의드립니다", To: "문의해요"},
			{From: "해요", To: "합니다"},
		},
	}
	p := NewPolisher(spec, 1, 30)

	// The first pair's output is not rewritten by the second.
	if got := p.Polish("부산 변호사 상담 문의드립니다"); got != "부산 변호사 상담 문의해요" {
		t.Errorf("expected one-pass replacement, got %q", got)
	}
	if got := p.Polish("부산 변호사 상담 해요"); got != "부산 변호사 상담 합니다" {
		t.Errorf("expected second pair applied on its own, got %q", got)
	}
}
