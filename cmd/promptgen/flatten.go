package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/flatten"
	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/table"
)

var (
	flattenSep  string
	flattenKeys bool
	flattenOut  string
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <json>",
	Short: "Convert a JSON export to CSV",
	Long: `Convert a JSON array of records (or a single object) to CSV.

Nested objects become parent_child columns, arrays are joined with ", ",
and nulls become empty cells. With --keys only the commonly reviewed
prompt fields are extracted. Malformed JSON is reported and skipped.

Examples:
  promptgen flatten generated_prompts_20250101_120000.json
  promptgen flatten export.json --keys --out review.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var t *table.Table
		if flattenKeys {
			t, err = flatten.Extract(data, flatten.KeyFields)
		} else {
			t, err = flatten.Flatten(data, flattenSep)
		}
		if errors.Is(err, flatten.ErrInvalidJSON) {
			logger.Warn("skipping malformed JSON", "path", args[0], "error", err)
			return nil
		}
		if err != nil {
			return err
		}

		out := flattenOut
		if out == "" {
			out = replaceExt(args[0], "csv")
		}
		if err := t.WriteFile(out); err != nil {
			return err
		}
		logger.Info("flattened", "rows", t.Len(), "columns", len(t.Header), "path", out)

		return output.Print(map[string]any{
			"rows":    t.Len(),
			"columns": t.Header,
			"output":  out,
		})
	},
}

func init() {
	flattenCmd.Flags().StringVar(&flattenSep, "sep", flatten.DefaultSeparator, "separator between parent and child keys")
	flattenCmd.Flags().BoolVar(&flattenKeys, "keys", false, "extract only the key prompt fields")
	flattenCmd.Flags().StringVar(&flattenOut, "out", "", "output CSV (default: input name with .csv)")

	rootCmd.AddCommand(flattenCmd)
}
