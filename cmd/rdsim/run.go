package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/logging"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/rd"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/viz"
)

var registry = experiment.NewRegistry()

// loadConfig layers defaults, the preset, the config file and flags, in
// that order. The model argument always wins, and --data beats output.dir.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	cfg.Model = model
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("dt") {
		cfg.TimeStep = dt
	}
	override := ""
	if f := cmd.Flag("data"); f != nil && f.Changed {
		override = dataDir
	}
	cfg.Output.Dir = cfg.DataDir(override)
	return cfg, cfg.Validate()
}

func protocol(cfg *config.Config) experiment.Protocol {
	return experiment.Protocol{
		Strength:  cfg.Stimulus.Strength,
		Width:     cfg.Stimulus.Width,
		Threshold: cfg.Stimulus.Threshold,
		ShowStep:  cfg.Output.ShowStep,
	}
}

// session is one stored run with its metrics wired up.
type session struct {
	solver      *rd.Solver
	driver      *experiment.Driver
	run         *storage.Run
	metrics     []rd.Metric
	stopMetrics func()
}

func openSession(cfg *config.Config) (*session, error) {
	s, _, err := registry.Build(cfg)
	if err != nil {
		return nil, err
	}

	st := storage.New(cfg.Output.Dir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	run, err := st.Create(storage.MetadataFor(s, cfg.Output.GridStep))
	if err != nil {
		return nil, err
	}
	s.AddObserver(run.Probe(cfg.Output.ProbeX, cfg.Output.ProbeY, 1))

	ms := metrics.Standard(cfg.Stimulus.Threshold)
	for _, m := range ms {
		s.AddMetric(m)
	}
	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		s.AddObserver(metrics.NewCollector(reg, cfg.Model))
	}

	return &session{
		solver:      s,
		driver:      experiment.NewDriver(s, protocol(cfg), run, log.With("run", run.ID())),
		run:         run,
		metrics:     ms,
		stopMetrics: serveMetrics(reg),
	}, nil
}

func (ss *session) close() error {
	defer ss.stopMetrics()
	err := ss.run.Finish(ss.solver.Steps(), ss.solver.Elapsed(), metrics.Collect(ss.metrics))
	return errors.Join(err, ss.run.Close())
}

// watch returns a context cancelled by a signal or by a "stop" file
// appearing in the run directory.
func (ss *session) watch() (context.Context, context.CancelFunc, error) {
	sigCtx, stopSig := signalContext()
	ctx, stopWatch, err := experiment.WatchStopFile(sigCtx, filepath.Join(ss.run.Dir(), "stop"), log)
	if err != nil {
		stopSig()
		return nil, nil, err
	}
	return ctx, func() { stopWatch(); stopSig() }, nil
}

func (ss *session) summary(elapsed time.Duration) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", ss.run.ID())
	fmt.Printf("steps: %d (t=%.3f)\n", ss.solver.Steps(), ss.solver.Elapsed())
	fmt.Println("\nmetrics:")
	for _, m := range ss.metrics {
		fmt.Printf("  %s: %.6f\n", m.Name(), m.Value())
	}
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	ss, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, ss.close()) }()

	ctx, cancel, err := ss.watch()
	if err != nil {
		return err
	}
	defer cancel()

	log.Info("running simulation", "model", cfg.Model, "run", ss.run.ID(), "steps", cfg.Steps())
	start := time.Now()
	if err := ss.driver.Kick(); err != nil {
		return err
	}
	if err := ss.driver.Advance(ctx, cfg.Steps()); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		log.Warn("run interrupted", "steps", ss.solver.Steps())
	}
	ss.summary(time.Since(start))
	return nil
}

func runWave(cmd *cobra.Command, args []string) (err error) {
	kind := strings.ToLower(args[0])
	cfg, err := loadConfig(cmd, args[1])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("period") {
		cfg.Stimulus.Period = period
	}

	ss, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, ss.close()) }()

	ctx, cancel, err := ss.watch()
	if err != nil {
		return err
	}
	defer cancel()

	log.Info("driving waves", "kind", kind, "model", cfg.Model, "run", ss.run.ID(),
		"stop_file", filepath.Join(ss.run.Dir(), "stop"))
	start := time.Now()
	switch kind {
	case "planar":
		err = ss.driver.PlanarWave(ctx, cfg.Stimulus.Period)
	case "target":
		err = ss.driver.TargetWave(ctx, cfg.Stimulus.Period)
	case "spiral":
		err = ss.driver.SpiralWave(ctx)
	default:
		return fmt.Errorf("unknown wave %q (planar, target or spiral)", kind)
	}
	if err != nil {
		return err
	}
	ss.summary(time.Since(start))
	return nil
}

// liveModel builds the live view for cfg; each reset rebuilds the solver.
func liveModel(cfg *config.Config, stepsPerFrame int) (viz.Model, error) {
	build := func() (*rd.Solver, error) {
		s, _, err := registry.Build(cfg)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Standard(cfg.Stimulus.Threshold) {
			s.AddMetric(m)
		}
		return s, nil
	}
	stim := func(s *rd.Solver) error {
		return experiment.NewDriver(s, protocol(cfg), nil, logging.Discard()).Kick()
	}
	return viz.NewModel(build, stim, viz.LiveConfig{
		StepsPerFrame: stepsPerFrame,
		TotalSteps:    cfg.Steps(),
		ProbeX:        cfg.Output.ProbeX,
		ProbeY:        cfg.Output.ProbeY,
		Threshold:     cfg.Stimulus.Threshold,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := liveModel(cfg, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	kick := func(s *rd.Solver) error {
		return experiment.NewDriver(s, protocol(cfg), nil, log).Kick()
	}
	runner := experiment.NewRunner(registry, kick)
	gs := experiment.NewGridSearch([]string{sweepParam}, [][]float64{sweepVals})

	log.Info("sweeping", "model", cfg.Model, "param", sweepParam, "values", len(sweepVals), "parallel", sweepLimit)
	start := time.Now()
	best, val, err := gs.Search(ctx, runner, cfg, metricName, sweepLimit)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("best %s = %g (%s = %.6f)\n", sweepParam, best[sweepParam], metricName, val)
	return nil
}
