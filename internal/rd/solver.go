package rd

import (
	"fmt"
	"math"
)

// Config fixes the geometry and stepping of a Solver. NY is ignored below
// two dimensions and NX at dimension 0.
type Config struct {
	Dimension     Dimension
	Boundary      Boundary
	Dt            float64
	Dh            float64
	NX            int
	NY            int
	ValidateState bool
}

// DefaultConfig returns a 100 point no-flux cable.
func DefaultConfig() Config {
	return Config{
		Dimension: Dim1,
		Boundary:  NoFlux,
		Dt:        0.01,
		Dh:        0.5,
		NX:        100,
		NY:        1,
	}
}

// Validate fails fast on values the stepping loop cannot handle.
func (c Config) Validate() error {
	if !c.Dimension.Valid() {
		return fmt.Errorf("%w: dimension %d", ErrInvalidConfig, int(c.Dimension))
	}
	if !c.Boundary.Valid() {
		return fmt.Errorf("%w: boundary %d", ErrInvalidConfig, int(c.Boundary))
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: time step %g", ErrInvalidConfig, c.Dt)
	}
	if c.Dimension > Dim0 && (!(c.Dh > 0) || math.IsInf(c.Dh, 0)) {
		return fmt.Errorf("%w: spatial step %g", ErrInvalidConfig, c.Dh)
	}
	if c.Dimension > Dim0 && c.NX <= 0 {
		return fmt.Errorf("%w: x dimension %d", ErrInvalidConfig, c.NX)
	}
	if c.Dimension == Dim2 && c.NY <= 0 {
		return fmt.Errorf("%w: y dimension %d", ErrInvalidConfig, c.NY)
	}
	return nil
}

// Shape returns the grid extent implied by the dimension.
func (c Config) Shape() (nx, ny int) {
	switch c.Dimension {
	case Dim0:
		return 1, 1
	case Dim1:
		return c.NX, 1
	default:
		return c.NX, c.NY
	}
}

// Solver integrates a Model on a Grid with explicit Euler steps.
type Solver struct {
	model   Model
	cfg     Config
	diff    []float64
	grid    *Grid
	stencil stencil

	elapsed  float64
	steps    int
	rates    []float64
	poisoned error

	observers []Observer
	metrics   []Metric
}

// New builds a solver with every field at zero and SlotA active.
func New(model Model, cfg Config) (*Solver, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := model.FieldCount()
	if n <= 0 {
		return nil, fmt.Errorf("%w: model %s has %d fields", ErrInvalidConfig, model.Name(), n)
	}
	d := model.DiffusionConstants()
	if len(d) != n {
		return nil, fmt.Errorf("%w: model %s has %d fields but %d diffusion constants",
			ErrInvalidConfig, model.Name(), n, len(d))
	}

	nx, ny := cfg.Shape()
	cfg.NX, cfg.NY = nx, ny
	return &Solver{
		model: model,
		cfg:   cfg,
		diff:  append([]float64(nil), d...),
		grid:  newGrid(n, nx, ny),
		stencil: stencil{
			dim:      cfg.Dimension,
			boundary: cfg.Boundary,
			dh2:      cfg.Dh * cfg.Dh,
		},
		rates: make([]float64, n),
	}, nil
}

// Advance performs steps explicit Euler steps. A failed step leaves the
// grid half written; every later call returns ErrPoisoned.
func (s *Solver) Advance(steps int) error {
	if s.poisoned != nil {
		return fmt.Errorf("%w: %v", ErrPoisoned, s.poisoned)
	}
	if steps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSteps, steps)
	}
	for i := 0; i < steps; i++ {
		if err := s.step(); err != nil {
			s.poisoned = err
			return err
		}
		s.steps++
		s.elapsed += s.cfg.Dt

		cur := s.grid.front()
		for _, o := range s.observers {
			o.OnStep(cur, s.elapsed)
		}
		for _, m := range s.metrics {
			m.Observe(cur, s.elapsed)
		}
	}
	return nil
}

func (s *Solver) step() error {
	s.grid.swap()
	old, cur := s.grid.back(), s.grid.front()
	nx, ny := s.grid.shape()
	dt := s.cfg.Dt

	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			clear(s.rates)
			s.model.Reaction(old, x, y, s.rates)
			pos := classify(s.cfg.Dimension, x, y, nx, ny)

			for f, d := range s.diff {
				rate := s.rates[f]
				if d != 0 {
					rate += d * s.stencil.laplacian(old, f, x, y, pos)
				}
				v := old.at(f, x, y) + dt*rate
				if s.cfg.ValidateState && (math.IsNaN(v) || math.IsInf(v, 0)) {
					return &SimulationError{
						Step:    s.steps + 1,
						Time:    s.elapsed + dt,
						Field:   f,
						X:       x,
						Y:       y,
						Wrapped: ErrNonFinite,
					}
				}
				cur.set(f, x, y, v)
			}
		}
	}
	return nil
}

// AddObserver registers o to run after every step.
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// AddMetric registers m to observe every step.
func (s *Solver) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Metrics returns the registered metrics.
func (s *Solver) Metrics() []Metric { return s.metrics }

func (s *Solver) Model() Model                { return s.model }
func (s *Solver) ModelName() string           { return s.model.Name() }
func (s *Solver) FieldCount() int             { return len(s.diff) }
func (s *Solver) Dimension() Dimension        { return s.cfg.Dimension }
func (s *Solver) Boundary() Boundary          { return s.cfg.Boundary }
func (s *Solver) Dt() float64                 { return s.cfg.Dt }
func (s *Solver) Dh() float64                 { return s.cfg.Dh }
func (s *Solver) Config() Config              { return s.cfg }
func (s *Solver) ActiveSlot() Slot            { return s.grid.Active() }
func (s *Solver) Steps() int                  { return s.steps }
func (s *Solver) Elapsed() float64            { return s.elapsed }
func (s *Solver) Shape() (nx, ny int)         { return s.grid.shape() }
func (s *Solver) SetElapsed(t float64)        { s.elapsed = t }
func (s *Solver) Diffusion(field int) float64 { return s.diff[field] }

// Snapshot returns the active slice. It is only stable until the next
// Advance; Clone it to keep it.
func (s *Solver) Snapshot() *Slice { return s.grid.front() }

// Value returns field at (x, y) in the active slot.
func (s *Solver) Value(field, x, y int) (float64, error) {
	cur := s.grid.front()
	if !cur.Contains(field, x, y) {
		return 0, outOfBounds(field, x, y)
	}
	return cur.at(field, x, y), nil
}

// Row returns field along x at fixed y.
func (s *Solver) Row(field, y int) ([]float64, error) {
	cur := s.grid.front()
	if !cur.Contains(field, 0, y) {
		return nil, outOfBounds(field, 0, y)
	}
	return cur.row(field, y), nil
}

// Column returns field along y at fixed x.
func (s *Solver) Column(field, x int) ([]float64, error) {
	cur := s.grid.front()
	if !cur.Contains(field, x, 0) {
		return nil, outOfBounds(field, x, 0)
	}
	return cur.column(field, x), nil
}

// IsAbove reports whether field at (x, y) exceeds threshold.
func (s *Solver) IsAbove(field, x, y int, threshold float64) (bool, error) {
	v, err := s.Value(field, x, y)
	if err != nil {
		return false, err
	}
	return v > threshold, nil
}

// Stimulate adds amount to field at (x, y).
func (s *Solver) Stimulate(field, x, y int, amount float64) error {
	cur := s.grid.front()
	if !cur.Contains(field, x, y) {
		return outOfBounds(field, x, y)
	}
	cur.set(field, x, y, cur.at(field, x, y)+amount)
	return nil
}

// Set overwrites field at (x, y).
func (s *Solver) Set(field, x, y int, v float64) error {
	cur := s.grid.front()
	if !cur.Contains(field, x, y) {
		return outOfBounds(field, x, y)
	}
	cur.set(field, x, y, v)
	return nil
}

// ResizeX grows the grid along x, copying the last column into new points.
func (s *Solver) ResizeX(nx int) error {
	if s.cfg.Dimension == Dim0 {
		return fmt.Errorf("%w: cannot resize a 0D grid", ErrInvalidConfig)
	}
	if err := s.grid.resizeX(nx); err != nil {
		return err
	}
	s.cfg.NX = nx
	return nil
}

// ResizeY grows the grid along y, copying the last row into new points.
func (s *Solver) ResizeY(ny int) error {
	if s.cfg.Dimension != Dim2 {
		return fmt.Errorf("%w: y resize needs a 2D grid", ErrInvalidConfig)
	}
	if err := s.grid.resizeY(ny); err != nil {
		return err
	}
	s.cfg.NY = ny
	return nil
}

// Seeder returns the initial-condition writer for this solver.
func (s *Solver) Seeder() Seeder { return Seeder{s: s} }
