package experiment

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/rd"
)

// Result is the outcome of one configuration in a sweep.
type Result struct {
	Config  *config.Config
	Steps   int
	Elapsed float64
	Metrics map[string]float64
}

// Prepare lets a sweep job seed or stimulate its solver before stepping.
type Prepare func(s *rd.Solver) error

// Runner executes configurations on fresh solvers from a Registry.
type Runner struct {
	reg     *Registry
	prepare Prepare
}

func NewRunner(reg *Registry, prepare Prepare) *Runner {
	return &Runner{reg: reg, prepare: prepare}
}

// Run builds cfg, attaches the standard metrics and advances for its
// duration, checking ctx between steps.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	s, _, err := r.reg.Build(cfg)
	if err != nil {
		return nil, err
	}
	ms := metrics.Standard(cfg.Stimulus.Threshold)
	for _, m := range ms {
		s.AddMetric(m)
	}
	if r.prepare != nil {
		if err := r.prepare(s); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.Steps(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.Advance(1); err != nil {
			return nil, err
		}
	}
	return &Result{
		Config:  cfg,
		Steps:   s.Steps(),
		Elapsed: s.Elapsed(),
		Metrics: metrics.Collect(ms),
	}, nil
}

// Sweep runs every configuration on its own solver, at most limit at a time
// (no limit when limit <= 0). Results keep the order of cfgs. The first
// failure cancels the rest.
func (r *Runner) Sweep(ctx context.Context, cfgs []*config.Config, limit int) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := r.Run(gctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, cfg.Model, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GridSearch tries every combination of parameter values and keeps the one
// that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points expands the grid into one parameter map per combination.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.expand(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.expand(depth+1, current, out)
	}
	delete(current, name)
}

// Search runs base with each parameter combination through the runner's
// sweep and returns the combination with the smallest metric value.
func (g *GridSearch) Search(ctx context.Context, r *Runner, base *config.Config, metric string, limit int) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d names for %d ranges", rd.ErrInvalidConfig, len(g.paramNames), len(g.ranges))
	}
	points := g.Points()
	cfgs := make([]*config.Config, len(points))
	for i, p := range points {
		c := base.Clone()
		if c.Params == nil {
			c.Params = make(map[string]float64, len(p))
		}
		for k, v := range p {
			c.Params[k] = v
		}
		cfgs[i] = c
	}

	results, err := r.Sweep(ctx, cfgs, limit)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, res := range results {
		v, ok := res.Metrics[metric]
		if !ok {
			return nil, 0, fmt.Errorf("unknown metric: %s", metric)
		}
		if v < best {
			best, bestParams = v, points[i]
		}
	}
	return bestParams, best, nil
}
