// Package quality scores candidate prompts against a weighted rubric.
//
// The rubric awards:
//   - a constant label weight (candidates are generated from known categories)
//   - the length weight when the word count is within [MinWords, MaxWords]
//   - the diversity weight when distinct words >= MinUniqueWords
//   - a share of the coverage weight proportional to the number of keyword
//     categories hit, saturating at CoverageSaturation categories
//   - the context and link weights when any cue from those lists appears
//
// Weights sum to 1.0, so scores lie in [0, 1].
package quality

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRubric is returned when a rubric fails validation.
var ErrInvalidRubric = errors.New("invalid rubric")

// weightTolerance is the allowed drift of the weight sum from 1.0.
const weightTolerance = 1e-6

// Weights assigns the share of the score each criterion contributes.
type Weights struct {
	Label     float64 `json:"label"`
	Length    float64 `json:"length"`
	Diversity float64 `json:"diversity"`
	Coverage  float64 `json:"coverage"`
	Context   float64 `json:"context"`
	Link      float64 `json:"link"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Label + w.Length + w.Diversity + w.Coverage + w.Context + w.Link
}

// Rubric is the static scoring configuration.
type Rubric struct {
	Weights            Weights
	MinWords           int
	MaxWords           int
	MinUniqueWords     int
	CoverageSaturation int
	Threshold          float64
}

// DefaultRubric returns the rubric the generator uses when none is configured.
func DefaultRubric() Rubric {
	return Rubric{
		Weights: Weights{
			Label:     0.25,
			Length:    0.15,
			Diversity: 0.10,
			Coverage:  0.35,
			Context:   0.10,
			Link:      0.05,
		},
		MinWords:           5,
		MaxWords:           30,
		MinUniqueWords:     8,
		CoverageSaturation: 2,
		Threshold:          0.75,
	}
}

// Validate checks the rubric for internal consistency.
func (r Rubric) Validate() error {
	w := r.Weights
	for name, v := range map[string]float64{
		"label": w.Label, "length": w.Length, "diversity": w.Diversity,
		"coverage": w.Coverage, "context": w.Context, "link": w.Link,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight must be >= 0", ErrInvalidRubric, name)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, want 1.0", ErrInvalidRubric, sum)
	}
	if r.MinWords < 0 || r.MaxWords < r.MinWords {
		return fmt.Errorf("%w: word range [%d, %d]", ErrInvalidRubric, r.MinWords, r.MaxWords)
	}
	if r.MinUniqueWords < 0 {
		return fmt.Errorf("%w: min unique words must be >= 0", ErrInvalidRubric)
	}
	if r.CoverageSaturation < 1 {
		return fmt.Errorf("%w: coverage saturation must be >= 1", ErrInvalidRubric)
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be in [0,1]", ErrInvalidRubric)
	}
	return nil
}
