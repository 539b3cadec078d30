package quality

import (
	"math"
	"strings"

	"github.com/jackzampolin/promptgen/internal/dedup"
)

// DefaultLabel is reported when a prompt hits no keyword category.
const DefaultLabel = "기본"

// Category is a labeled keyword list.
type Category struct {
	Label    string
	Keywords []string
}

// Vocabulary is the keyword side of the rubric.
type Vocabulary struct {
	// Coverage categories, e.g. practice area, region, USP, law.
	Categories []Category
	Context    Category
	Link       Category
}

// Report is the detailed result of scoring one candidate.
type Report struct {
	Score         float64  `json:"score"`
	Pass          bool     `json:"pass"`
	WordCount     int      `json:"word_count"`
	UniqueWords   int      `json:"unique_words"`
	CategoriesHit []string `json:"categories_hit,omitempty"`
	ContextHit    bool     `json:"context_hit"`
	LinkHit       bool     `json:"link_hit"`
	Contributions Weights  `json:"contributions"`
}

// Keywords returns the labels of every category the candidate hit,
// including context and link cues, or DefaultLabel when none matched.
func (r Report) Keywords(v Vocabulary) []string {
	labels := append([]string(nil), r.CategoriesHit...)
	if r.ContextHit {
		labels = append(labels, v.Context.Label)
	}
	if r.LinkHit {
		labels = append(labels, v.Link.Label)
	}
	if len(labels) == 0 {
		return []string{DefaultLabel}
	}
	return labels
}

// Scorer evaluates candidates. It holds no mutable state.
type Scorer struct {
	rubric Rubric
	vocab  Vocabulary
}

// NewScorer creates a scorer. The rubric is validated.
func NewScorer(rubric Rubric, vocab Vocabulary) (*Scorer, error) {
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{rubric: rubric, vocab: vocab}, nil
}

// Rubric returns the scorer's rubric.
func (s *Scorer) Rubric() Rubric {
	return s.rubric
}

// Vocabulary returns the scorer's keyword vocabulary.
func (s *Scorer) Vocabulary() Vocabulary {
	return s.vocab
}

// Score returns the candidate's score in [0, 1].
func (s *Scorer) Score(candidate string) float64 {
	return s.Evaluate(candidate).Score
}

// Passes reports whether the candidate reaches the rubric threshold. When the
// length criterion carries weight, a candidate outside the word range never
// passes.
func (s *Scorer) Passes(candidate string) bool {
	return s.Evaluate(candidate).Pass
}

// Evaluate scores the candidate and returns the breakdown.
func (s *Scorer) Evaluate(candidate string) Report {
	r := s.rubric
	w := r.Weights
	rep := Report{
		WordCount:   dedup.WordCount(candidate),
		UniqueWords: dedup.UniqueWords(candidate),
	}

	rep.Contributions.Label = w.Label
	if rep.WordCount >= r.MinWords && rep.WordCount <= r.MaxWords {
		rep.Contributions.Length = w.Length
	}
	if rep.UniqueWords >= r.MinUniqueWords {
		rep.Contributions.Diversity = w.Diversity
	}

	for _, c := range s.vocab.Categories {
		if containsAny(candidate, c.Keywords) {
			rep.CategoriesHit = append(rep.CategoriesHit, c.Label)
		}
	}
	ratio := math.Min(1, float64(len(rep.CategoriesHit))/float64(r.CoverageSaturation))
	rep.Contributions.Coverage = w.Coverage * ratio

	if containsAny(candidate, s.vocab.Context.Keywords) {
		rep.ContextHit = true
		rep.Contributions.Context = w.Context
	}
	if containsAny(candidate, s.vocab.Link.Keywords) {
		rep.LinkHit = true
		rep.Contributions.Link = w.Link
	}

	rep.Score = clamp01(round6(rep.Contributions.Sum()))
	rep.Pass = rep.Score >= r.Threshold
	if w.Length > 0 && rep.Contributions.Length == 0 {
		rep.Pass = false
	}
	return rep
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// round6 rounds to 1e-6 so that sums like 0.25+0.15+0.35 compare equal to 0.75.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
