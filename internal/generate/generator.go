// Package generate runs the bounded generation loop: render a candidate from
// a pack, then filter it through the fingerprint index, the similarity judge
// and the quality scorer until each cell reaches its target or runs out of
// attempts.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/promptgen/internal/dedup"
	"github.com/jackzampolin/promptgen/internal/pack"
	"github.com/jackzampolin/promptgen/internal/quality"
)

// Accepted is a candidate that passed every filter.
type Accepted struct {
	pack.Candidate
	Hash   string
	Report quality.Report
}

// Rejections counts rejected candidates by reason.
type Rejections struct {
	Template int `json:"template" yaml:"template"`
	Exact    int `json:"exact" yaml:"exact"`
	Hash     int `json:"hash" yaml:"hash"`
	Near     int `json:"near" yaml:"near"`
	Quality  int `json:"quality" yaml:"quality"`
}

// Total returns the number of rejected candidates.
func (r Rejections) Total() int {
	return r.Template + r.Exact + r.Hash + r.Near + r.Quality
}

// Add accumulates o into r.
func (r *Rejections) Add(o Rejections) {
	r.Template += o.Template
	r.Exact += o.Exact
	r.Hash += o.Hash
	r.Near += o.Near
	r.Quality += o.Quality
}

// CellReport describes the outcome of one cell. Missing is the shortfall.
type CellReport struct {
	Cell       pack.Cell  `json:"cell" yaml:"cell"`
	Requested  int        `json:"requested" yaml:"requested"`
	Accepted   int        `json:"accepted" yaml:"accepted"`
	Missing    int        `json:"missing" yaml:"missing"`
	Attempts   int        `json:"attempts" yaml:"attempts"`
	Rejections Rejections `json:"rejections" yaml:"rejections"`
}

// Result is the outcome of a whole plan.
type Result struct {
	RunID       string
	Pack        string
	StartedAt   time.Time
	Duration    time.Duration
	Requested   int
	SeedPrompts int
	Accepted    []Accepted
	Cells       []CellReport
	Cancelled   bool
}

// Missing returns the number of requested prompts that were not accepted,
// including those of cells skipped after cancellation.
func (r *Result) Missing() int {
	return max(0, r.Requested-len(r.Accepted))
}

// Generator produces deduplicated, quality-filtered prompts from a pack.
// It is not safe for concurrent use.
type Generator struct {
	cfg      Config
	pack     *pack.Pack
	index    *dedup.Index
	judge    *dedup.Judge
	scorer   *quality.Scorer
	polisher *pack.Polisher
	rng      *rand.Rand
	logger   *slog.Logger

	// accepted holds every prompt accepted by this generator, across cells.
	accepted []string
}

// New creates a generator. The index may already hold seed prompts; accepted
// prompts are added to it.
func New(cfg Config, p *pack.Pack, index *dedup.Index, rng *rand.Rand, logger *slog.Logger) (*Generator, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: pack is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scorer, err := quality.NewScorer(cfg.Rubric, p.Vocabulary())
	if err != nil {
		return nil, err
	}
	if index == nil {
		index = dedup.NewIndex()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		cfg:      cfg,
		pack:     p,
		index:    index,
		judge:    dedup.NewJudge(cfg.SimilarityThreshold),
		scorer:   scorer,
		polisher: pack.NewPolisher(p.Polish, cfg.Rubric.MinWords, cfg.Rubric.MaxWords),
		rng:      rng,
		logger:   logger.With("pack", p.Name),
	}, nil
}

// Scorer returns the scorer the generator filters with.
func (g *Generator) Scorer() *quality.Scorer {
	return g.scorer
}

// Generate produces up to target accepted prompts for one cell. Each slot
// gets MaxAttemptsPerItem attempts; a slot that uses them up is reported as
// missing and the next slot is tried. Cancelling ctx stops between attempts.
func (g *Generator) Generate(ctx context.Context, target int, intent pack.Intent, difficulty pack.Difficulty) ([]Accepted, CellReport) {
	cell := pack.Cell{Intent: intent, Difficulty: difficulty}
	rep := CellReport{Cell: cell, Requested: target}
	var out []Accepted

	for slot := 0; slot < target; slot++ {
		if ctx.Err() != nil {
			break
		}
		a, ok := g.fill(ctx, cell, &rep)
		if !ok {
			if ctx.Err() == nil {
				g.logger.Debug("slot failed", "cell", cell.String(), "slot", slot+1)
			}
			continue
		}
		out = append(out, a)
	}

	rep.Accepted = len(out)
	rep.Missing = target - len(out)
	if rep.Missing > 0 && ctx.Err() == nil {
		g.logger.Warn("cell shortfall",
			"cell", cell.String(),
			"requested", target,
			"accepted", rep.Accepted,
			"attempts", rep.Attempts)
	}
	return out, rep
}

// fill tries candidates for one slot until one is accepted, the attempt cap
// is reached, or ctx is done.
func (g *Generator) fill(ctx context.Context, cell pack.Cell, rep *CellReport) (Accepted, bool) {
	for failures := 0; failures < g.cfg.MaxAttemptsPerItem; failures++ {
		if ctx.Err() != nil {
			return Accepted{}, false
		}
		rep.Attempts++

		a, reason := g.try(cell)
		switch reason {
		case "":
			return a, true
		case reasonTemplate:
			rep.Rejections.Template++
		case reasonExact:
			rep.Rejections.Exact++
		case reasonHash:
			rep.Rejections.Hash++
		case reasonNear:
			rep.Rejections.Near++
		case reasonQuality:
			rep.Rejections.Quality++
		}
	}
	return Accepted{}, false
}

const (
	reasonTemplate = "template"
	reasonExact    = "exact"
	reasonHash     = "hash"
	reasonNear     = "near"
	reasonQuality  = "quality"
)

// try renders and filters a single candidate. An empty reason means accepted.
func (g *Generator) try(cell pack.Cell) (Accepted, string) {
	c, err := g.pack.Render(g.rng, cell.Intent, cell.Difficulty)
	if err != nil {
		if !errors.Is(err, pack.ErrRender) {
			g.logger.Warn("render failed", "cell", cell.String(), "error", err)
		}
		g.logger.Debug("rejected", "reason", reasonTemplate, "error", err)
		return Accepted{}, reasonTemplate
	}
	if g.cfg.Polish {
		c.Prompt = g.polisher.Polish(c.Prompt)
	}

	if g.index.ContainsExact(c.Prompt) {
		g.logger.Debug("rejected", "reason", reasonExact, "prompt", c.Prompt)
		return Accepted{}, reasonExact
	}
	hash := dedup.Hash(c.Prompt)
	if g.index.ContainsHashValue(hash) {
		g.logger.Debug("rejected", "reason", reasonHash, "prompt", c.Prompt)
		return Accepted{}, reasonHash
	}
	if match, score, ok := g.judge.MostSimilar(c.Prompt, g.accepted); ok && score >= g.judge.Threshold {
		g.logger.Debug("rejected", "reason", reasonNear, "prompt", c.Prompt, "match", match, "jaccard", score)
		return Accepted{}, reasonNear
	}
	report := g.scorer.Evaluate(c.Prompt)
	if !report.Pass {
		g.logger.Debug("rejected", "reason", reasonQuality, "prompt", c.Prompt, "score", report.Score)
		return Accepted{}, reasonQuality
	}

	g.index.Add(c.Prompt)
	g.accepted = append(g.accepted, c.Prompt)
	return Accepted{Candidate: c, Hash: hash, Report: report}, ""
}

// Run executes every target of the plan in order. Shortfalls are not
// errors; a cancelled context returns what was accepted so far with
// Cancelled set.
func (g *Generator) Run(ctx context.Context, plan Plan) (*Result, error) {
	res := &Result{
		RunID:       uuid.New().String(),
		Pack:        g.pack.Name,
		StartedAt:   time.Now(),
		Requested:   plan.Total(),
		SeedPrompts: g.index.Len(),
	}
	g.logger.Info("generation started",
		"run_id", res.RunID,
		"requested", res.Requested,
		"seed_prompts", res.SeedPrompts)

	for _, t := range plan {
		if !t.Cell.Intent.Valid() || !t.Cell.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: invalid cell in plan: %v", ErrInvalidConfig, t.Cell)
		}
		if t.Count < 0 {
			return nil, fmt.Errorf("%w: negative count for %s", ErrInvalidConfig, t.Cell)
		}
	}

	for _, t := range plan {
		if ctx.Err() != nil {
			res.Cancelled = true
			res.Cells = append(res.Cells, CellReport{Cell: t.Cell, Requested: t.Count, Missing: t.Count})
			continue
		}
		accepted, rep := g.Generate(ctx, t.Count, t.Cell.Intent, t.Cell.Difficulty)
		res.Accepted = append(res.Accepted, accepted...)
		res.Cells = append(res.Cells, rep)
		g.logger.Debug("cell complete",
			"cell", t.Cell.String(),
			"accepted", rep.Accepted,
			"requested", rep.Requested,
			"attempts", rep.Attempts)
	}
	if ctx.Err() != nil {
		res.Cancelled = true
	}

	res.Duration = time.Since(res.StartedAt)
	g.logger.Info("generation finished",
		"run_id", res.RunID,
		"accepted", len(res.Accepted),
		"missing", res.Missing(),
		"cancelled", res.Cancelled,
		"duration", res.Duration)
	return res, nil
}
