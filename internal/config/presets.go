package config

import "sort"

func preset(model string, dim, nx, ny int, bc string, dt, dh, duration float64) *Config {
	c := DefaultConfig()
	c.Model, c.Dimension, c.BoundaryCondition = model, dim, bc
	c.XDimension, c.YDimension = nx, ny
	c.TimeStep, c.SpatialStep, c.Duration = dt, dh, duration
	return c
}

var Presets = map[string]map[string]*Config{
	"heat": {
		"rod":  preset("heat", 1, 100, 1, "zero", 0.1, 1, 200),
		"ring": preset("heat", 1, 100, 1, "periodic", 0.1, 1, 200),
		"sheet": func() *Config {
			c := preset("heat", 2, 60, 60, "noflux", 0.1, 1, 100)
			c.Output.ProbeX, c.Output.ProbeY = 30, 30
			return c
		}(),
	},
	"fhn": {
		"point": preset("fhn", 0, 1, 1, "noflux", 0.05, 0, 500),
		"cable": preset("fhn", 1, 200, 1, "noflux", 0.05, 0.5, 300),
		"ring":  preset("fhn", 1, 200, 1, "periodic", 0.05, 0.5, 600),
		"sheet": func() *Config {
			c := preset("fhn", 2, 120, 120, "noflux", 0.05, 0.5, 600)
			c.Output.GridStep = 2
			return c
		}(),
	},
	"ka": {
		"cable": func() *Config {
			c := preset("ka", 1, 400, 1, "noflux", 0.05, 0.5, 500)
			c.Stimulus.Strength, c.Stimulus.Threshold = 3, 1.2
			return c
		}(),
	},
	"hh": {
		"axon": func() *Config {
			c := preset("hh", 1, 300, 1, "noflux", 0.01, 0.5, 50)
			c.Stimulus.Strength, c.Stimulus.Threshold = 40, 50
			return c
		}(),
	},
	"br": {
		"cable": func() *Config {
			c := preset("br", 1, 300, 1, "noflux", 0.01, 0.25, 500)
			c.Stimulus.Strength, c.Stimulus.Threshold = 60, -40
			return c
		}(),
	},
	"fk": {
		"cable": preset("fk", 1, 300, 1, "noflux", 0.05, 0.25, 400),
	},
	"mm_epi": {
		"sheet": func() *Config {
			c := preset("mm_epi", 2, 100, 100, "noflux", 0.05, 0.25, 800)
			c.Output.GridStep = 2
			return c
		}(),
	},
	"ore": {
		"sheet": func() *Config {
			c := preset("ore", 2, 100, 100, "noflux", 0.001, 0.1, 20)
			c.Stimulus.Strength, c.Stimulus.Threshold = 0.8, 0.3
			c.Output.ShowStep = 1000
			return c
		}(),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	if modelPresets, ok := Presets[model]; ok {
		if cfg, ok := modelPresets[name]; ok {
			return cfg.Clone()
		}
	}
	return nil
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListModels returns every model with presets.
func ListModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
