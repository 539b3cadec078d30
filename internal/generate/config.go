package generate

import (
	"errors"
	"fmt"

	"github.com/jackzampolin/promptgen/internal/dedup"
	"github.com/jackzampolin/promptgen/internal/quality"
)

// ErrInvalidConfig is returned when generator settings are out of range.
var ErrInvalidConfig = errors.New("invalid generator config")

// DefaultMaxAttempts is the number of consecutive failed candidates allowed
// for one slot before the rest of the cell is reported as a shortfall.
const DefaultMaxAttempts = 50

// Config holds everything a Generator needs besides its pack, index and
// random source.
type Config struct {
	Rubric              quality.Rubric
	SimilarityThreshold float64
	MaxAttemptsPerItem  int
	Polish              bool
}

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{
		Rubric:              quality.DefaultRubric(),
		SimilarityThreshold: dedup.DefaultThreshold,
		MaxAttemptsPerItem:  DefaultMaxAttempts,
		Polish:              true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Rubric.Validate(); err != nil {
		return err
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold %v outside (0, 1]", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MaxAttemptsPerItem < 1 {
		return fmt.Errorf("%w: max attempts per item must be at least 1", ErrInvalidConfig)
	}
	return nil
}
