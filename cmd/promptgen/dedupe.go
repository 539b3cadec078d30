package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/table"
)

var (
	dedupeColumn string
	dedupeOut    string
)

// dedupeResult is printed by the dedupe command.
type dedupeResult struct {
	Report table.DedupeReport `json:"report" yaml:"report"`
	Output string             `json:"output" yaml:"output"`
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <csv>",
	Short: "Drop rows whose prompt repeats an earlier row",
	Long: `Drop duplicate prompts from a result CSV, keeping the first occurrence.

Values are compared exactly.

Examples:
  promptgen dedupe results.csv
  promptgen dedupe results.csv --column prompt --out unique.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.ReadFile(args[0])
		if err != nil {
			return err
		}

		rep, err := t.DropDuplicates(dedupeColumn)
		if err != nil {
			return err
		}

		out := dedupeOut
		if out == "" {
			out = timestampedPath(args[0], "remove_deduplicated")
		}
		if err := t.WriteFile(out); err != nil {
			return err
		}
		logger.Info("removed duplicates", "removed", rep.Removed, "remaining", rep.Remaining, "path", out)

		return output.Print(dedupeResult{Report: rep, Output: out})
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeColumn, "column", "질문", "column holding the prompt")
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "", "output CSV (default: remove_deduplicated_<timestamp>.csv next to the input)")

	rootCmd.AddCommand(dedupeCmd)
}
