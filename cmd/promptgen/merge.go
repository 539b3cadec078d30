package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/table"
)

var (
	mergeOut    string
	mergeBucket string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <base.csv> <extra.csv>",
	Short: "Append generated prompts to a review result file",
	Long: `Merge a review result CSV with a generator export.

Base rows keep their values under the unified review header. Extra rows are
mapped (질문, 의도, 난이도, 도메인) into it, numbered after the base rows, and
missing review columns are filled with defaults.

Examples:
  promptgen merge reviewed.csv generated_prompts_20250101_120000.csv
  promptgen merge reviewed.csv extra.csv --bucket iOVU --out merged.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := table.ReadFile(args[0])
		if err != nil {
			return err
		}
		extra, err := table.ReadFile(args[1])
		if err != nil {
			return err
		}

		opts := table.DefaultMergeOptions()
		if mergeBucket != "" {
			opts.Defaults["추출된_버킷타입"] = mergeBucket
		}
		merged := table.Merge(base, extra, opts)

		out := mergeOut
		if out == "" {
			out = timestampedPath(args[0], "merged")
		}
		if err := merged.WriteFile(out); err != nil {
			return err
		}
		logger.Info("merged files", "base", base.Len(), "extra", extra.Len(), "path", out)

		return output.Print(map[string]any{
			"base":   base.Len(),
			"extra":  extra.Len(),
			"total":  merged.Len(),
			"output": out,
		})
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "output CSV (default: merged_<timestamp>.csv next to the base file)")
	mergeCmd.Flags().StringVar(&mergeBucket, "bucket", "", "bucket type for rows whose export has no domain")

	rootCmd.AddCommand(mergeCmd)
}
