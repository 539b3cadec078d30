package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/history"
	"github.com/jackzampolin/promptgen/internal/output"
)

var historyRecent int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run history database",
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgManager.Get().History.Path
		if path == "" {
			path = homeDirectory.HistoryPath()
		}

		store, err := history.Open(cmd.Context(), path, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context(), historyRecent)
		if err != nil {
			return err
		}
		return output.Print(stats)
	},
}

func init() {
	historyStatsCmd.Flags().IntVar(&historyRecent, "recent", 5, "number of recent runs to list")

	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}
