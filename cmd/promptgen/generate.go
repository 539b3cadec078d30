package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/config"
	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/output"
)

var (
	genPack        string
	genSeedFile    string
	genTotal       int
	genSeed        int64
	genMaxAttempts int
	genSimilarity  float64
	genThreshold   float64
	genFormat      string
	genOutDir      string
	genPrefix      string
	genBatchSize   int
	genHistory     bool
	genInteractive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate deduplicated, quality-filtered prompts",
	Long: `Generate prompts for every intent/difficulty cell of the plan.

Candidates are rendered from the pack's templates, polished, and accepted
only if they are not an exact or fingerprint duplicate of a seed or earlier
prompt, not a near duplicate of this run's output, and pass the quality
rubric. A cell that keeps failing is reported as a shortfall; it is not an
error.

The plan comes from the config file (default 200 prompts) unless --total
splits a count evenly across the nine cells.

Examples:
  promptgen generate
  promptgen generate --pack iovu --total 90 --seed 42
  promptgen generate --seed-file prior_results.csv --format both
  promptgen generate --total 1000 --batch-size 200 --history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cfgManager.Get()
		applyGenerateFlags(cmd, cfg)

		s, err := newSession(cfg, homeDirectory, logger)
		if err != nil {
			return err
		}

		if genInteractive {
			return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s)
		}

		plan, err := cfg.Plan()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("total") {
			if genTotal < 1 {
				return fmt.Errorf("--total must be positive, got %d", genTotal)
			}
			plan = generate.EvenPlan(genTotal)
		}

		sum, err := s.generate(cmd.Context(), plan)
		if err != nil {
			return err
		}
		return output.Print(sum)
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Generate prompts from an interactive menu",
	Long: `Show a menu for normal generation (1), batch production (2) or exit (0).

Each run asks for an optional prior result file to dedupe against, whether to
use the configured plan, and otherwise a count for each of the nine cells.
Counts that cannot be parsed default to 10.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cfgManager.Get(), homeDirectory, logger)
		if err != nil {
			return err
		}
		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s)
	},
}

// applyGenerateFlags overrides config values with flags the user set.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("pack") {
		cfg.Generation.Pack = genPack
	}
	if flags.Changed("seed-file") {
		cfg.Generation.SeedFile = genSeedFile
	}
	if flags.Changed("seed") {
		cfg.Generation.Seed = genSeed
	}
	if flags.Changed("max-attempts") {
		cfg.Generation.MaxAttempts = genMaxAttempts
	}
	if flags.Changed("similarity") {
		cfg.Generation.SimilarityThreshold = genSimilarity
	}
	if flags.Changed("threshold") {
		cfg.Quality.Threshold = genThreshold
	}
	if flags.Changed("format") {
		cfg.Output.Format = genFormat
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = genOutDir
	}
	if flags.Changed("prefix") {
		cfg.Output.Prefix = genPrefix
	}
	if flags.Changed("batch-size") {
		cfg.Output.BatchSize = genBatchSize
	}
	if flags.Changed("history") {
		cfg.History.Enabled = genHistory
	}
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genPack, "pack", "", "pack name or path to a pack YAML file")
	f.StringVar(&genSeedFile, "seed-file", "", "prior CSV/JSON export whose prompts must not be repeated")
	f.IntVar(&genTotal, "total", 0, "total prompts, split evenly across the nine cells (overrides the config plan)")
	f.Int64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")
	f.IntVar(&genMaxAttempts, "max-attempts", generate.DefaultMaxAttempts, "consecutive failed candidates allowed per prompt")
	f.Float64Var(&genSimilarity, "similarity", 0.8, "Jaccard similarity at or above which a prompt is a near duplicate")
	f.Float64Var(&genThreshold, "threshold", 0.75, "minimum quality score")
	f.StringVar(&genFormat, "format", "both", "export format: csv, json or both")
	f.StringVar(&genOutDir, "out-dir", ".", "directory for exported files")
	f.StringVar(&genPrefix, "prefix", "generated_prompts", "export file name prefix")
	f.IntVar(&genBatchSize, "batch-size", 0, "split the export into files of this many prompts plus an integrated file")
	f.BoolVar(&genHistory, "history", false, "dedupe against and record to the history database")
	f.BoolVar(&genInteractive, "interactive", false, "prompt for mode, seed file and plan")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(interactiveCmd)
}
