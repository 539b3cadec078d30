package generate

import (
	"math"
	"sort"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

// sampleWidth is the display width sample prompts are truncated to.
const sampleWidth = 72

// Sample is one of the best-scoring accepted prompts.
type Sample struct {
	Cell   string  `json:"cell" yaml:"cell"`
	Score  float64 `json:"score" yaml:"score"`
	Prompt string  `json:"prompt" yaml:"prompt"`
}

// Summary is the printable report of a run.
type Summary struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	Pack         string         `json:"pack" yaml:"pack"`
	Requested    int            `json:"requested" yaml:"requested"`
	Accepted     int            `json:"accepted" yaml:"accepted"`
	Missing      int            `json:"missing" yaml:"missing"`
	SeedPrompts  int            `json:"seed_prompts" yaml:"seed_prompts"`
	Cancelled    bool           `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Duration     string         `json:"duration" yaml:"duration"`
	AverageScore float64        `json:"average_score" yaml:"average_score"`
	PassRate     float64        `json:"pass_rate" yaml:"pass_rate"`
	Rejections   Rejections     `json:"rejections" yaml:"rejections"`
	ByIntent     map[string]int `json:"by_intent" yaml:"by_intent"`
	ByDifficulty map[string]int `json:"by_difficulty" yaml:"by_difficulty"`
	Cells        []CellReport   `json:"cells" yaml:"cells"`
	Samples      []Sample       `json:"samples,omitempty" yaml:"samples,omitempty"`
	Files        []string       `json:"files,omitempty" yaml:"files,omitempty"`
}

// Summarize builds a report from a result with up to topN sample prompts.
func Summarize(res *Result, topN int) *Summary {
	s := &Summary{
		RunID:       res.RunID,
		Pack:        res.Pack,
		Requested:   res.Requested,
		Accepted:    len(res.Accepted),
		Missing:     res.Missing(),
		SeedPrompts: res.SeedPrompts,
		Cancelled:   res.Cancelled,
		Duration:    res.Duration.Round(time.Millisecond).String(),
		Cells:       res.Cells,
		ByIntent: lo.CountValuesBy(res.Accepted, func(a Accepted) string {
			return a.Intent.Label()
		}),
		ByDifficulty: lo.CountValuesBy(res.Accepted, func(a Accepted) string {
			return a.Difficulty.Label()
		}),
	}

	attempts := 0
	for _, c := range res.Cells {
		s.Rejections.Add(c.Rejections)
		attempts += c.Attempts
	}
	if attempts > 0 {
		s.PassRate = round3(float64(s.Accepted) / float64(attempts))
	}
	if len(res.Accepted) > 0 {
		total := lo.SumBy(res.Accepted, func(a Accepted) float64 { return a.Report.Score })
		s.AverageScore = round3(total / float64(len(res.Accepted)))
	}

	s.Samples = topSamples(res.Accepted, topN)
	return s
}

// topSamples returns the n highest-scoring prompts; ties keep acceptance order.
func topSamples(accepted []Accepted, n int) []Sample {
	if n <= 0 || len(accepted) == 0 {
		return nil
	}
	sorted := append([]Accepted(nil), accepted...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Report.Score > sorted[j].Report.Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return lo.Map(sorted, func(a Accepted, _ int) Sample {
		return Sample{
			Cell:   a.Candidate.Intent.Label() + "-" + a.Candidate.Difficulty.Label(),
			Score:  a.Report.Score,
			Prompt: runewidth.Truncate(a.Prompt, sampleWidth, "..."),
		}
	})
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
