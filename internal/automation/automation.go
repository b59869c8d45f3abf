package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/logging"
	"github.com/san-kum/rdsim/internal/rd"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. Preset has the form model/name;
// without it the step starts from the default configuration for Model.
// Zero-valued overrides are ignored.
type ScenarioStep struct {
	Model    string             `yaml:"model"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	Kick     bool               `yaml:"kick"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (st ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if st.Preset != "" {
		model, name, _ := strings.Cut(st.Preset, "/")
		if cfg = config.GetPreset(model, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", st.Preset)
		}
	} else if st.Model != "" {
		cfg.Model = st.Model
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.Dt > 0 {
		cfg.TimeStep = st.Dt
	}
	if len(st.Params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(st.Params))
		}
		for k, v := range st.Params {
			cfg.Params[k] = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func kick(cfg *config.Config) experiment.Prepare {
	return func(s *rd.Solver) error {
		p := experiment.Protocol{
			Strength:  cfg.Stimulus.Strength,
			Width:     cfg.Stimulus.Width,
			Threshold: cfg.Stimulus.Threshold,
			ShowStep:  cfg.Output.ShowStep,
		}
		return experiment.NewDriver(s, p, nil, logging.Discard()).Kick()
	}
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, log *slog.Logger) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", cfg.Model)

		var prepare experiment.Prepare
		if step.Kick {
			prepare = kick(cfg)
		}
		res, err := experiment.NewRunner(reg, prepare).Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// MonteCarloConfig perturbs every grid point of the steady state with
// uniform noise in [-Perturbation, Perturbation] before each trial.
type MonteCarloConfig struct {
	Config       *config.Config
	Field        int
	Perturbation float64
	NumTrials    int
	Seed         int64
	// Bound is the magnitude above which a trial counts as unstable.
	Bound float64
}

// MonteCarloResult is the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID int
	Peak    float64
	Stable  bool
}

// RunMonteCarlo runs the trials one after another with a seeded generator so
// the same seed reproduces the same perturbations. A zero seed uses the clock.
// A trial stopped by state validation counts as unstable with an infinite
// peak; any other failure ends the batch.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry, log *slog.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e6
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		perturb := func(s *rd.Solver) error {
			nx, ny := s.Shape()
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					if err := s.Stimulate(cfg.Field, x, y, (rng.Float64()-0.5)*2*cfg.Perturbation); err != nil {
						return err
					}
				}
			}
			return nil
		}

		res, err := experiment.NewRunner(reg, perturb).Run(ctx, cfg.Config)
		if errors.Is(err, rd.ErrNonFinite) {
			log.Debug("trial diverged", "trial", trial, "error", err)
			results = append(results, MonteCarloResult{TrialID: trial, Peak: math.Inf(1)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		peak := res.Metrics["peak"]
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Peak:    peak,
			Stable:  res.Metrics["non_finite"] == 0 && math.Abs(peak) < bound,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo", "done", trial+1, "trials", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
