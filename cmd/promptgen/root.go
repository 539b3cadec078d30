package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/config"
	"github.com/jackzampolin/promptgen/internal/home"
	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

// Set by the root command before any subcommand runs.
var (
	homeDirectory *home.Dir
	cfgManager    *config.Manager
	logger        = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "promptgen",
	Short: "Template-driven search prompt generator with dedup and quality filtering",
	Long: `promptgen produces Korean search prompts for a brand from a vocabulary pack.

Every candidate passes through:
  - exact and MD5 fingerprint deduplication against seeds and earlier output
  - Jaccard near-duplicate rejection against this run's accepted prompts
  - a weighted quality rubric (length, diversity, keyword coverage, cues)

Accepted prompts are balanced across 3 intents x 3 difficulties and exported
as UTF-8 CSV and/or JSON. Helper commands post-process result files.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		output.SetFormat(format)

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		homeDirectory = h

		mgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}
		cfgManager = mgr

		cfg := mgr.Get()
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		level, err := cfg.Log.SlogLevel()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if f := mgr.ConfigFile(); f != "" {
			logger.Debug("loaded config", "path", f)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.promptgen/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "promptgen home directory (default: ~/.promptgen)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or table",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	rootCmd.AddCommand(versionCmd)
}
