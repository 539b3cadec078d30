package main

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/balance"
	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/table"
)

var (
	balanceTotal  int
	balanceQuota  string
	balanceRandom bool
	balanceSeed   int64
	balanceOut    string
)

var balanceCmd = &cobra.Command{
	Use:   "balance <csv>",
	Short: "Select rows to match a per-cell quota",
	Long: `Select rows from a review result CSV so every intent/difficulty cell
matches its quota.

Each cell keeps its highest-scoring rows (or a random sample with --random).
If the selection falls short of the total, it is topped up from the
remaining information-intent rows, then from any remaining rows; a surplus
is trimmed by score.

The default quota selects 250 rows:
  정보-쉬움=67 정보-보통=67 정보-어려움=66
  탐색-쉬움=8  탐색-보통=9  탐색-어려움=8
  거래-쉬움=8  거래-보통=9  거래-어려움=8

Examples:
  promptgen balance reviewed.csv
  promptgen balance reviewed.csv --total 200 --random --seed 7
  promptgen balance reviewed.csv --quota 정보-쉬움=40,탐색-쉬움=20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.ReadFile(args[0])
		if err != nil {
			return err
		}

		opts := balance.DefaultOptions()
		if balanceQuota != "" {
			q, err := balance.ParseQuota(balanceQuota)
			if err != nil {
				return err
			}
			opts.Quota = q
		}
		opts.Total = balanceTotal
		opts.Random = balanceRandom
		if balanceRandom {
			seed := balanceSeed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			opts.Rand = rand.New(rand.NewSource(seed))
		}

		selected, rep, err := balance.Select(t, opts)
		if err != nil {
			return err
		}

		out := balanceOut
		if out == "" {
			out = timestampedPath(args[0], "balanced")
		}
		if err := selected.WriteFile(out); err != nil {
			return err
		}
		logger.Info("balanced selection", "input", rep.Input, "selected", rep.Selected, "path", out)

		return output.Print(rep)
	},
}

func init() {
	f := balanceCmd.Flags()
	f.IntVar(&balanceTotal, "total", 0, "final row count (default: quota total)")
	f.StringVar(&balanceQuota, "quota", "", "comma-separated cell=count quota (default: 250-row quota)")
	f.BoolVar(&balanceRandom, "random", false, "sample rows randomly within each cell instead of by score")
	f.Int64Var(&balanceSeed, "seed", 0, "random seed for --random (0 = time-based)")
	f.StringVar(&balanceOut, "out", "", "output CSV (default: balanced_<timestamp>.csv next to the input)")

	rootCmd.AddCommand(balanceCmd)
}
