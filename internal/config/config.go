package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/rd"
)

const (
	DefaultModel       = "fhn"
	DefaultDimension   = 1
	DefaultBoundary    = "noflux"
	DefaultDt          = 0.05
	DefaultDh          = 0.5
	DefaultX           = 200
	DefaultY           = 1
	DefaultDuration    = 100.0
	DefaultStrength    = 1.0
	DefaultWidth       = 5
	DefaultThreshold   = 0.5
	DefaultShowStep    = 100
	DefaultGridStep    = 1
	DefaultOutputDir   = ".rdsim"
	DefaultPlanarPulse = 150.0
)

type Config struct {
	Model             string             `yaml:"model" validate:"required"`
	Dimension         int                `yaml:"dimension" validate:"min=0,max=2"`
	BoundaryCondition string             `yaml:"boundary_condition" validate:"boundary"`
	TimeStep          float64            `yaml:"time_step" validate:"gt=0"`
	SpatialStep       float64            `yaml:"spatial_step" validate:"gte=0"`
	XDimension        int                `yaml:"x_dimension" validate:"gte=1"`
	YDimension        int                `yaml:"y_dimension" validate:"gte=1"`
	Duration          float64            `yaml:"duration" validate:"gte=0"`
	ValidateState     bool               `yaml:"validate_state"`
	Diffusion         []float64          `yaml:"diffusion,omitempty"`
	Params            map[string]float64 `yaml:"params,omitempty"`
	Stimulus          StimulusConfig     `yaml:"stimulus"`
	Output            OutputConfig       `yaml:"output"`
}

type StimulusConfig struct {
	Strength  float64 `yaml:"strength"`
	Width     int     `yaml:"width" validate:"gte=0"`
	Threshold float64 `yaml:"threshold"`
	Period    float64 `yaml:"period" validate:"gte=0"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	ShowStep int    `yaml:"show_step" validate:"gte=1"`
	GridStep int    `yaml:"grid_step" validate:"gte=1"`
	ProbeX   int    `yaml:"probe_x" validate:"gte=0"`
	ProbeY   int    `yaml:"probe_y" validate:"gte=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("boundary", validateBoundary)
	validate.RegisterStructValidation(validateGeometry, Config{})
}

func validateBoundary(fl validator.FieldLevel) bool {
	_, err := rd.ParseBoundary(fl.Field().String())
	return err == nil
}

// validateGeometry checks fields that depend on the dimension.
func validateGeometry(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.Dimension > 0 && c.SpatialStep <= 0 {
		sl.ReportError(c.SpatialStep, "SpatialStep", "spatial_step", "gt0_in_space", "")
	}
	nx, ny := c.shape()
	if c.Output.ProbeX >= nx {
		sl.ReportError(c.Output.ProbeX, "ProbeX", "probe_x", "inside_grid", "")
	}
	if c.Output.ProbeY >= ny {
		sl.ReportError(c.Output.ProbeY, "ProbeY", "probe_y", "inside_grid", "")
	}
}

func DefaultConfig() *Config {
	return &Config{
		Model:             DefaultModel,
		Dimension:         DefaultDimension,
		BoundaryCondition: DefaultBoundary,
		TimeStep:          DefaultDt,
		SpatialStep:       DefaultDh,
		XDimension:        DefaultX,
		YDimension:        DefaultY,
		Duration:          DefaultDuration,
		Stimulus: StimulusConfig{
			Strength:  DefaultStrength,
			Width:     DefaultWidth,
			Threshold: DefaultThreshold,
			Period:    DefaultPlanarPulse,
		},
		Output: OutputConfig{
			Dir:      DefaultOutputDir,
			ShowStep: DefaultShowStep,
			GridStep: DefaultGridStep,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field. The error matches
// rd.ErrInvalidConfig and unwraps to validator.ValidationErrors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", rd.ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) shape() (nx, ny int) {
	switch {
	case c.Dimension <= 0:
		return 1, 1
	case c.Dimension == 1:
		return c.XDimension, 1
	default:
		return c.XDimension, c.YDimension
	}
}

// SolverConfig converts the file settings into solver geometry.
func (c *Config) SolverConfig() (rd.Config, error) {
	b, err := rd.ParseBoundary(c.BoundaryCondition)
	if err != nil {
		return rd.Config{}, err
	}
	nx, ny := c.shape()
	sc := rd.Config{
		Dimension:     rd.Dimension(c.Dimension),
		Boundary:      b,
		Dt:            c.TimeStep,
		Dh:            c.SpatialStep,
		NX:            nx,
		NY:            ny,
		ValidateState: c.ValidateState,
	}
	return sc, sc.Validate()
}

// Steps is the number of time steps covering Duration.
func (c *Config) Steps() int {
	if c.TimeStep <= 0 {
		return 0
	}
	return int(c.Duration/c.TimeStep + 0.5)
}

// DataDir is the run store directory: override when set, then output.dir,
// then DefaultOutputDir.
func (c *Config) DataDir(override string) string {
	switch {
	case override != "":
		return override
	case c.Output.Dir != "":
		return c.Output.Dir
	}
	return DefaultOutputDir
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Diffusion != nil {
		out.Diffusion = append([]float64(nil), c.Diffusion...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
