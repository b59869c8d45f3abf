package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/models"
	"github.com/san-kum/rdsim/internal/rd"
)

type constructor func(d []float64) models.Model

type entry struct {
	diffusion []float64
	build     constructor
}

// Registry maps model tags to constructors and their default diffusion
// constants.
type Registry struct {
	models map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]entry)}

	r.models["heat"] = entry{[]float64{1}, func(d []float64) models.Model {
		return models.NewHeat(d[0])
	}}
	r.models["fhn"] = entry{[]float64{1, 0}, func(d []float64) models.Model {
		return models.NewFitzHughNagumo(d[0], d[1])
	}}
	r.models["ore"] = entry{[]float64{1, 0}, func(d []float64) models.Model {
		return models.NewOregonator(d[0], d[1])
	}}
	r.models["ka"] = entry{[]float64{1.1, 0}, func(d []float64) models.Model {
		return models.NewKarma(d[0], d[1])
	}}
	r.models["hh"] = entry{[]float64{1, 0, 0, 0}, func(d []float64) models.Model {
		return models.NewHodgkinHuxley(d[0], d[1], d[2], d[3])
	}}
	r.models["fk"] = entry{[]float64{0.1, 0, 0}, func(d []float64) models.Model {
		return models.NewFentonKarma(d[0], d[1], d[2])
	}}
	r.models["mm_epi"] = entry{[]float64{0.1171, 0, 0, 0}, func(d []float64) models.Model {
		return models.NewMinimalEpi(d[0], d[1], d[2], d[3])
	}}
	r.models["mm_endo"] = entry{[]float64{0.1171, 0, 0, 0}, func(d []float64) models.Model {
		return models.NewMinimalEndo(d[0], d[1], d[2], d[3])
	}}
	r.models["mm_m"] = entry{[]float64{0.1171, 0, 0, 0}, func(d []float64) models.Model {
		return models.NewMinimalM(d[0], d[1], d[2], d[3])
	}}
	r.models["br"] = entry{[]float64{1, 0, 0, 0, 0, 0, 0, 0}, func(d []float64) models.Model {
		return models.NewBeelerReuter(d[0], d[1], d[2], d[3], d[4], d[5], d[6], d[7])
	}}

	return r
}

// GetModel builds the model tagged name. Tags are case-insensitive; a nil
// diffusion slice selects the defaults.
func (r *Registry) GetModel(name string, diffusion []float64) (models.Model, error) {
	e, ok := r.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	if diffusion == nil {
		diffusion = e.diffusion
	}
	if len(diffusion) != len(e.diffusion) {
		return nil, fmt.Errorf("%w: %s has %d fields, got %d diffusion constants",
			rd.ErrInvalidConfig, name, len(e.diffusion), len(diffusion))
	}
	return e.build(append([]float64(nil), diffusion...)), nil
}

// DefaultDiffusion returns a copy of the default diffusion constants for name.
func (r *Registry) DefaultDiffusion(name string) ([]float64, error) {
	e, ok := r.models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return append([]float64(nil), e.diffusion...), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the configured model, applies parameter overrides and
// returns a solver seeded with the model's resting state.
func (r *Registry) Build(cfg *config.Config) (*rd.Solver, models.Model, error) {
	m, err := r.GetModel(cfg.Model, cfg.Diffusion)
	if err != nil {
		return nil, nil, err
	}
	for name, v := range cfg.Params {
		if err := m.SetParam(name, v); err != nil {
			return nil, nil, err
		}
	}

	sc, err := cfg.SolverConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := rd.New(m, sc)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Seeder().Steady(m.DefaultState()); err != nil {
		return nil, nil, err
	}
	return s, m, nil
}
