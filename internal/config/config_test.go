package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rdsim/internal/rd"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "fhn", cfg.Model)
	assert.Positive(t, cfg.TimeStep)
	assert.Positive(t, cfg.Duration)
	require.NoError(t, cfg.Validate())
}

func TestSolverConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dimension = 2
	cfg.XDimension, cfg.YDimension = 30, 20
	cfg.BoundaryCondition = "periodic"
	cfg.ValidateState = true

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, rd.Dim2, sc.Dimension)
	assert.Equal(t, rd.Periodic, sc.Boundary)
	assert.Equal(t, 30, sc.NX)
	assert.Equal(t, 20, sc.NY)
	assert.True(t, sc.ValidateState)
}

func TestSolverConfigCollapsesShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dimension = 1
	cfg.XDimension, cfg.YDimension = 50, 9

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, 50, sc.NX)
	assert.Equal(t, 1, sc.NY)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"no model", func(c *Config) { c.Model = "" }, "Model"},
		{"bad dimension", func(c *Config) { c.Dimension = 3 }, "Dimension"},
		{"bad boundary", func(c *Config) { c.BoundaryCondition = "mirror" }, "BoundaryCondition"},
		{"zero dt", func(c *Config) { c.TimeStep = 0 }, "TimeStep"},
		{"zero dh in space", func(c *Config) { c.SpatialStep = 0 }, "SpatialStep"},
		{"zero width", func(c *Config) { c.XDimension = 0 }, "XDimension"},
		{"probe outside", func(c *Config) { c.Output.ProbeX = 500 }, "ProbeX"},
		{"zero show step", func(c *Config) { c.Output.ShowStep = 0 }, "ShowStep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, rd.ErrInvalidConfig))

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.StructField())
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidatePointIgnoresSpatialStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dimension = 0
	cfg.SpatialStep = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rde.yaml")

	cfg := DefaultConfig()
	cfg.Model = "ka"
	cfg.Diffusion = []float64{1.1, 0}
	cfg.Params = map[string]float64{"re": 1.2}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rde.yaml")
	data := "model: heat\nboundary_condition: periodic\nx_dimension: 64\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "heat", cfg.Model)
	assert.Equal(t, 64, cfg.XDimension)
	assert.Equal(t, DefaultDt, cfg.TimeStep)
	assert.Equal(t, DefaultShowStep, cfg.Output.ShowStep)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rde.yaml")
	require.NoError(t, os.WriteFile(path, []byte("boundary_condition: sticky\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, rd.ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeStep, cfg.Duration = 0.01, 2.5
	assert.Equal(t, 250, cfg.Steps())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("heat", "ring")
	require.NotNil(t, cfg)
	assert.Equal(t, "periodic", cfg.BoundaryCondition)

	cfg.XDimension = 1
	assert.Equal(t, 100, Presets["heat"]["ring"].XDimension, "preset mutated through copy")
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset("heat", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "rod"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"cable", "point", "ring", "sheet"}, ListPresets("fhn"))
	assert.Nil(t, ListPresets("nonexistent"))
	assert.Contains(t, ListModels(), "mm_epi")
}

func TestPresetsAreValid(t *testing.T) {
	for model, byName := range Presets {
		for name, cfg := range byName {
			assert.Equal(t, model, cfg.Model, "%s/%s", model, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
			_, err := cfg.SolverConfig()
			assert.NoError(t, err, "%s/%s", model, name)
		}
	}
}

func TestDataDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultOutputDir, cfg.DataDir(""))

	cfg.Output.Dir = "from-file"
	assert.Equal(t, "from-file", cfg.DataDir(""))
	assert.Equal(t, "from-flag", cfg.DataDir("from-flag"))

	cfg.Output.Dir = ""
	assert.Equal(t, DefaultOutputDir, cfg.DataDir(""))
}

func TestOutputDirFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Output.Dir = "lab/runs"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lab/runs", loaded.DataDir(""))
}
