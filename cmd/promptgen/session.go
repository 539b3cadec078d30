package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jackzampolin/promptgen/internal/config"
	"github.com/jackzampolin/promptgen/internal/dedup"
	"github.com/jackzampolin/promptgen/internal/export"
	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/history"
	"github.com/jackzampolin/promptgen/internal/home"
	"github.com/jackzampolin/promptgen/internal/pack"
)

// sampleCount is the number of top-scoring prompts shown in a summary.
const sampleCount = 5

// session wires a validated config to the generator, exporter and history store.
type session struct {
	cfg    *config.Config
	home   *home.Dir
	logger *slog.Logger

	// now stamps export file names; nil means time.Now.
	now func() time.Time
}

func newSession(cfg *config.Config, h *home.Dir, logger *slog.Logger) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &session{cfg: cfg, home: h, logger: logger}, nil
}

func (s *session) packsDir() string {
	if s.cfg.Generation.PacksDir != "" {
		return s.cfg.Generation.PacksDir
	}
	return s.home.PacksDir()
}

func (s *session) historyPath() string {
	if s.cfg.History.Path != "" {
		return s.cfg.History.Path
	}
	return s.home.HistoryPath()
}

func (s *session) loadPack() (*pack.Pack, error) {
	reg, err := pack.NewRegistry(s.packsDir(), s.logger)
	if err != nil {
		return nil, err
	}
	return reg.Load(s.cfg.Generation.Pack)
}

// seedIndex loads the seed file into idx. A missing seed file is logged and
// treated as an empty seed.
func (s *session) seedIndex(idx *dedup.Index) error {
	path := s.cfg.Generation.SeedFile
	if path == "" {
		return nil
	}
	prompts, err := export.LoadSeed(path)
	if errors.Is(err, export.ErrSeedNotFound) {
		s.logger.Warn("seed file not found, starting with an empty index", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	n := idx.Seed(prompts)
	s.logger.Info("loaded seed prompts", "path", path, "prompts", n)
	return nil
}

// generate runs plan end to end: seed, generate, export and record.
func (s *session) generate(ctx context.Context, plan generate.Plan) (*generate.Summary, error) {
	p, err := s.loadPack()
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("pack", p.Name)

	idx := dedup.NewIndex()
	if err := s.seedIndex(idx); err != nil {
		return nil, err
	}

	var store *history.Store
	if s.cfg.History.Enabled {
		store, err = history.Open(ctx, s.historyPath(), logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		n, err := store.SeedIndex(ctx, idx, p.Name)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded history prompts", "prompts", n)
	}

	seed := s.cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, err := generate.New(s.cfg.GeneratorConfig(), p, idx, rand.New(rand.NewSource(seed)), s.logger)
	if err != nil {
		return nil, err
	}

	res, err := g.Run(ctx, plan)
	if err != nil {
		return nil, err
	}

	files, err := s.export(res, p)
	if err != nil {
		return nil, err
	}

	if store != nil {
		run, prompts := history.FromResult(res, seed)
		// A cancelled run still records what it accepted.
		n, err := store.RecordRun(context.WithoutCancel(ctx), run, prompts)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		logger.Info("recorded run", "run_id", run.ID, "new_prompts", n)
	}

	sum := generate.Summarize(res, sampleCount)
	sum.Files = files
	return sum, nil
}

func (s *session) export(res *generate.Result, p *pack.Pack) ([]string, error) {
	records := export.Records(res, p)
	if len(records) == 0 {
		s.logger.Warn("no prompts accepted, nothing to export", "run_id", res.RunID)
		return nil, nil
	}

	format, err := export.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	exp := &export.Exporter{
		Dir:    s.cfg.Output.Dir,
		Prefix: s.cfg.Output.Prefix,
		Format: format,
		Now:    s.now,
	}

	var files []string
	if s.cfg.Output.BatchSize > 0 {
		files, err = exp.SaveBatches(records, s.cfg.Output.BatchSize)
	} else {
		files, err = exp.Save(records)
	}
	if err != nil {
		return files, err
	}
	for _, f := range files {
		s.logger.Info("exported", "path", f)
	}
	return files, nil
}
