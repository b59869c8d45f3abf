package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/models"
	"github.com/san-kum/rdsim/internal/rd"
)

// ErrNoPulse is returned when a stimulus fails to produce a travelling pulse.
var ErrNoPulse = errors.New("experiment: no pulse above threshold")

// spiralLimit bounds the steps spent growing the seed pulse of a spiral.
const spiralLimit = 1_000_000

// Sink receives snapshots of the active slice.
type Sink interface {
	WriteSnapshot(t float64, s *rd.Slice) error
}

// Protocol holds the stimulation settings shared by all drivers.
type Protocol struct {
	Strength  float64
	Width     int
	Threshold float64
	ShowStep  int
}

// Driver runs stimulation protocols against one solver. Each protocol keeps
// running until its context is cancelled, which is a normal stop.
type Driver struct {
	solver *rd.Solver
	proto  Protocol
	sink   Sink
	log    *slog.Logger
}

func NewDriver(s *rd.Solver, p Protocol, sink Sink, log *slog.Logger) *Driver {
	if p.ShowStep < 1 {
		p.ShowStep = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Driver{solver: s, proto: p, sink: sink, log: log}
}

func (d *Driver) Solver() *rd.Solver { return d.solver }

// Stimulate adds the protocol strength to field 0 at (x, y).
func (d *Driver) Stimulate(x, y int) error {
	return d.solver.Stimulate(0, x, y, d.proto.Strength)
}

// StimulateLeft excites x in [0, width] on the first row.
func (d *Driver) StimulateLeft(width int, strength float64) error {
	nx, _ := d.solver.Shape()
	for x := 0; x <= width && x < nx; x++ {
		if err := d.solver.Stimulate(0, x, 0, strength); err != nil {
			return err
		}
	}
	return nil
}

// StimulateRight excites the last width+1 points of the first row.
func (d *Driver) StimulateRight(width int, strength float64) error {
	nx, _ := d.solver.Shape()
	for x := max(nx-1-width, 0); x < nx; x++ {
		if err := d.solver.Stimulate(0, x, 0, strength); err != nil {
			return err
		}
	}
	return nil
}

// StimulateRegion excites the square of side width with corner (x0, y0),
// cut to the grid.
func (d *Driver) StimulateRegion(x0, y0, width int) error {
	nx, ny := d.solver.Shape()
	for x := max(x0, 0); x < min(x0+width, nx); x++ {
		for y := max(y0, 0); y < min(y0+width, ny); y++ {
			if err := d.Stimulate(x, y); err != nil {
				return err
			}
		}
	}
	return nil
}

// Kick applies the protocol's default stimulus for the grid dimension: the
// single point, the left end of a cable, or a square at the centre of a
// sheet.
func (d *Driver) Kick() error {
	switch d.solver.Dimension() {
	case rd.Dim0:
		return d.Stimulate(0, 0)
	case rd.Dim1:
		return d.StimulateLeft(d.proto.Width, d.proto.Strength)
	default:
		nx, ny := d.solver.Shape()
		w := max(d.proto.Width, 1)
		return d.StimulateRegion(nx/2-w/2, ny/2-w/2, w)
	}
}

func (d *Driver) stimulateEdge() error {
	_, ny := d.solver.Shape()
	for y := 0; y < ny; y++ {
		if err := d.Stimulate(0, y); err != nil {
			return err
		}
	}
	return nil
}

// PlanarWave excites the x=0 edge every period time units.
func (d *Driver) PlanarWave(ctx context.Context, period float64) error {
	return d.paced(ctx, period, d.stimulateEdge)
}

// TargetWave excites a square at a third of the grid every period time units.
func (d *Driver) TargetWave(ctx context.Context, period float64) error {
	nx, ny := d.solver.Shape()
	x0, y0 := nx/3, ny/3
	return d.paced(ctx, period, func() error {
		return d.StimulateRegion(x0, y0, d.proto.Width)
	})
}

func (d *Driver) paced(ctx context.Context, period float64, stimulate func() error) error {
	if period <= 0 {
		return fmt.Errorf("%w: period %v", rd.ErrInvalidConfig, period)
	}
	steps := max(int(period/d.solver.Dt()+0.5), 1)
	for {
		if err := stimulate(); err != nil {
			return err
		}
		if err := d.Advance(ctx, steps); err != nil {
			return stopped(err)
		}
	}
}

// SpiralWave grows a pulse on a cable, copies it into the lower half of the
// sheet and lets the broken front curl. The sheet must be two dimensional.
func (d *Driver) SpiralWave(ctx context.Context) error {
	if d.solver.Dimension() != rd.Dim2 {
		return fmt.Errorf("%w: spiral waves need a 2D grid", rd.ErrInvalidConfig)
	}
	nx, ny := d.solver.Shape()

	cfg := d.solver.Config()
	cfg.Dimension, cfg.NY = rd.Dim1, 1
	cable, err := rd.New(d.solver.Model(), cfg)
	if err != nil {
		return err
	}
	if err := cable.Seeder().Steady(d.restingState()); err != nil {
		return err
	}

	seed := NewDriver(cable, d.proto, nil, d.log)
	if err := seed.StimulateLeft(d.proto.Width, d.proto.Strength); err != nil {
		return err
	}
	probe := 5 * nx / 6
	for n := 0; ; n++ {
		if above, _ := cable.IsAbove(0, probe, 0, d.proto.Threshold); above {
			break
		}
		if n == spiralLimit {
			return fmt.Errorf("%w: front never reached x=%d", ErrNoPulse, probe)
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := cable.Advance(1); err != nil {
			return err
		}
	}

	for f := 0; f < d.solver.FieldCount(); f++ {
		row, _ := cable.Row(f, 0)
		for y := 0; y < ny/2; y++ {
			for x, v := range row {
				if err := d.solver.Set(f, x, y, v); err != nil {
					return err
				}
			}
		}
	}
	d.log.Info("spiral wave initiated", "steps", cable.Steps(), "t", cable.Elapsed())

	if err := d.snapshot(); err != nil {
		return err
	}
	for {
		if err := d.Advance(ctx, d.proto.ShowStep); err != nil {
			return stopped(err)
		}
	}
}

// restingState is the model's resting state, or the sheet corner far from
// any stimulus when the model does not declare one.
func (d *Driver) restingState() []float64 {
	if m, ok := d.solver.Model().(models.Model); ok {
		return m.DefaultState()
	}
	nx, ny := d.solver.Shape()
	rest := make([]float64, d.solver.FieldCount())
	for f := range rest {
		rest[f], _ = d.solver.Value(f, nx-1, ny-1)
	}
	return rest
}

// MovePulse steps a cable until the maximum of field 0 sits at pos.
func (d *Driver) MovePulse(ctx context.Context, pos int) error {
	for {
		p, err := analysis.Pulse(d.solver.Snapshot(), 0)
		if err != nil {
			return err
		}
		if p.MaxPos == pos {
			return nil
		}
		if p.Max < d.proto.Threshold {
			return fmt.Errorf("%w: max %.4f at %d", ErrNoPulse, p.Max, p.MaxPos)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.solver.Advance(1); err != nil {
			return err
		}
	}
}

// Advance steps n times, writing a snapshot whenever the total step count
// is a multiple of ShowStep. It returns ctx.Err() if cancelled between steps.
func (d *Driver) Advance(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.solver.Advance(1); err != nil {
			return err
		}
		if d.solver.Steps()%d.proto.ShowStep == 0 {
			if err := d.snapshot(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) snapshot() error {
	if d.sink == nil {
		return nil
	}
	t := d.solver.Elapsed()
	if err := d.sink.WriteSnapshot(t, d.solver.Snapshot()); err != nil {
		return fmt.Errorf("write snapshot at t=%.4f: %w", t, err)
	}
	d.log.Debug("snapshot written", "t", t, "steps", d.solver.Steps())
	return nil
}

// stopped treats cancellation as a clean end of a protocol.
func stopped(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
