package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/viz"
)

// presetCatalog offers every config preset to the interactive app.
type presetCatalog struct{}

func newApp() viz.App { return viz.NewApp(presetCatalog{}) }

func (presetCatalog) Presets() []string {
	var names []string
	for _, model := range config.ListModels() {
		for _, name := range config.ListPresets(model) {
			names = append(names, model+"/"+name)
		}
	}
	return names
}

func (presetCatalog) lookup(name string) (*config.Config, error) {
	model, p, _ := strings.Cut(name, "/")
	cfg := config.GetPreset(model, p)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

func (c presetCatalog) Settings(name string) map[string]float64 {
	cfg, err := c.lookup(name)
	if err != nil {
		return nil
	}
	return map[string]float64{
		"time_step":    cfg.TimeStep,
		"spatial_step": cfg.SpatialStep,
		"x_dimension":  float64(cfg.XDimension),
		"y_dimension":  float64(cfg.YDimension),
		"strength":     cfg.Stimulus.Strength,
	}
}

func (c presetCatalog) Launch(name string, settings map[string]float64) (viz.Model, error) {
	cfg, err := c.lookup(name)
	if err != nil {
		return viz.Model{}, err
	}
	for k, v := range settings {
		switch k {
		case "time_step":
			cfg.TimeStep = v
		case "spatial_step":
			cfg.SpatialStep = v
		case "x_dimension":
			cfg.XDimension = int(v)
		case "y_dimension":
			cfg.YDimension = int(v)
		case "strength":
			cfg.Stimulus.Strength = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return viz.Model{}, err
	}
	return liveModel(cfg, 10)
}
