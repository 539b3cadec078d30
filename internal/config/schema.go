package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/promptgen/internal/export"
	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/pack"
	"github.com/jackzampolin/promptgen/internal/quality"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds promptgen configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Generation GenerationCfg `mapstructure:"generation" yaml:"generation"`
	Quality    QualityCfg    `mapstructure:"quality" yaml:"quality"`
	Output     OutputCfg     `mapstructure:"output" yaml:"output"`
	History    HistoryCfg    `mapstructure:"history" yaml:"history"`
	Log        LogCfg        `mapstructure:"log" yaml:"log"`
}

// GenerationCfg controls the generator loop.
type GenerationCfg struct {
	Pack                string         `mapstructure:"pack" yaml:"pack"`
	PacksDir            string         `mapstructure:"packs_dir" yaml:"packs_dir"`
	SeedFile            string         `mapstructure:"seed_file" yaml:"seed_file"`
	Seed                int64          `mapstructure:"seed" yaml:"seed"`
	MaxAttempts         int            `mapstructure:"max_attempts" yaml:"max_attempts"`
	SimilarityThreshold float64        `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	Polish              bool           `mapstructure:"polish" yaml:"polish"`
	Plan                map[string]int `mapstructure:"plan" yaml:"plan"`
}

// QualityCfg mirrors quality.Rubric.
type QualityCfg struct {
	Weights            WeightsCfg `mapstructure:"weights" yaml:"weights"`
	MinWords           int        `mapstructure:"min_words" yaml:"min_words"`
	MaxWords           int        `mapstructure:"max_words" yaml:"max_words"`
	MinUniqueWords     int        `mapstructure:"min_unique_words" yaml:"min_unique_words"`
	CoverageSaturation int        `mapstructure:"coverage_saturation" yaml:"coverage_saturation"`
	Threshold          float64    `mapstructure:"threshold" yaml:"threshold"`
}

// WeightsCfg holds the per-criterion rubric weights. They must sum to 1.
type WeightsCfg struct {
	Label     float64 `mapstructure:"label" yaml:"label"`
	Length    float64 `mapstructure:"length" yaml:"length"`
	Diversity float64 `mapstructure:"diversity" yaml:"diversity"`
	Coverage  float64 `mapstructure:"coverage" yaml:"coverage"`
	Context   float64 `mapstructure:"context" yaml:"context"`
	Link      float64 `mapstructure:"link" yaml:"link"`
}

// OutputCfg controls where and how accepted prompts are written.
type OutputCfg struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Format    string `mapstructure:"format" yaml:"format"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

// HistoryCfg configures the run history database.
// An empty Path means {home}/history.db.
type HistoryCfg struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogCfg configures logging.
type LogCfg struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	r := quality.DefaultRubric()
	g := generate.DefaultConfig()
	return &Config{
		Generation: GenerationCfg{
			Pack:                pack.DefaultPack,
			MaxAttempts:         g.MaxAttemptsPerItem,
			SimilarityThreshold: g.SimilarityThreshold,
			Polish:              g.Polish,
			Plan:                generate.DefaultPlan().Counts(),
		},
		Quality: QualityCfg{
			Weights: WeightsCfg{
				Label:     r.Weights.Label,
				Length:    r.Weights.Length,
				Diversity: r.Weights.Diversity,
				Coverage:  r.Weights.Coverage,
				Context:   r.Weights.Context,
				Link:      r.Weights.Link,
			},
			MinWords:           r.MinWords,
			MaxWords:           r.MaxWords,
			MinUniqueWords:     r.MinUniqueWords,
			CoverageSaturation: r.CoverageSaturation,
			Threshold:          r.Threshold,
		},
		Output: OutputCfg{
			Dir:    ".",
			Prefix: "generated_prompts",
			Format: string(export.FormatBoth),
		},
		Log: LogCfg{
			Level: "info",
		},
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if c.Generation.Pack == "" {
		return fmt.Errorf("%w: generation.pack is required", ErrInvalidConfig)
	}
	if err := c.GeneratorConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.Plan(); err != nil {
		return fmt.Errorf("%w: generation.plan: %v", ErrInvalidConfig, err)
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}
	if c.Output.BatchSize < 0 {
		return fmt.Errorf("%w: output.batch_size must be >= 0, got %d", ErrInvalidConfig, c.Output.BatchSize)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Rubric converts the quality section to a quality.Rubric.
func (c *Config) Rubric() quality.Rubric {
	q := c.Quality
	return quality.Rubric{
		Weights: quality.Weights{
			Label:     q.Weights.Label,
			Length:    q.Weights.Length,
			Diversity: q.Weights.Diversity,
			Coverage:  q.Weights.Coverage,
			Context:   q.Weights.Context,
			Link:      q.Weights.Link,
		},
		MinWords:           q.MinWords,
		MaxWords:           q.MaxWords,
		MinUniqueWords:     q.MinUniqueWords,
		CoverageSaturation: q.CoverageSaturation,
		Threshold:          q.Threshold,
	}
}

// GeneratorConfig converts the generation and quality sections to a
// generate.Config.
func (c *Config) GeneratorConfig() generate.Config {
	return generate.Config{
		Rubric:              c.Rubric(),
		SimilarityThreshold: c.Generation.SimilarityThreshold,
		MaxAttemptsPerItem:  c.Generation.MaxAttempts,
		Polish:              c.Generation.Polish,
	}
}

// Plan converts generation.plan to a generate.Plan. An empty plan selects
// generate.DefaultPlan.
func (c *Config) Plan() (generate.Plan, error) {
	if len(c.Generation.Plan) == 0 {
		return generate.DefaultPlan(), nil
	}
	return generate.ParsePlan(c.Generation.Plan)
}

// SlogLevel parses the configured level ("debug", "info", "warn", "error").
func (l LogCfg) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return level, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}
