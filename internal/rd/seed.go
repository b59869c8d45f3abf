package rd

import "fmt"

// Seeder writes initial conditions straight into the active slot.
type Seeder struct {
	s *Solver
}

func (sd Seeder) checkField(field int) error {
	if field < 0 || field >= sd.s.FieldCount() {
		return fmt.Errorf("%w: field %d of %d", ErrOutOfBounds, field, sd.s.FieldCount())
	}
	return nil
}

func (sd Seeder) fill(field int, v float64, x0, x1, y0, y1 int) {
	cur := sd.s.grid.front()
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			cur.set(field, x, y, v)
		}
	}
}

// Uniform sets field to v everywhere.
func (sd Seeder) Uniform(field int, v float64) error {
	if err := sd.checkField(field); err != nil {
		return err
	}
	nx, ny := sd.s.Shape()
	sd.fill(field, v, 0, nx, 0, ny)
	return nil
}

// Steady seeds every field from state, one value per field.
func (sd Seeder) Steady(state []float64) error {
	if len(state) != sd.s.FieldCount() {
		return fmt.Errorf("%w: %d values for %d fields", ErrInvalidConfig, len(state), sd.s.FieldCount())
	}
	for f, v := range state {
		if err := sd.Uniform(f, v); err != nil {
			return err
		}
	}
	return nil
}

// Patch sets the square of half width radius around (cx, cy). Each axis
// covers [c-radius, c+radius) cut to the grid, so a patch near the origin
// starts at index 0 and loses its clipped part: c=2, radius=5 gives [0,7).
// The centre is never shifted inward to keep the full width. Below two
// dimensions cy is ignored, and a 0D grid just gets its single point.
func (sd Seeder) Patch(field int, v float64, cx, cy, radius int) error {
	if err := sd.checkField(field); err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("%w: negative patch radius %d", ErrInvalidConfig, radius)
	}
	nx, ny := sd.s.Shape()
	switch sd.s.Dimension() {
	case Dim0:
		sd.fill(field, v, 0, 1, 0, 1)
	case Dim1:
		x0, x1 := span(cx, radius, nx)
		sd.fill(field, v, x0, x1, 0, 1)
	default:
		x0, x1 := span(cx, radius, nx)
		y0, y1 := span(cy, radius, ny)
		sd.fill(field, v, x0, x1, y0, y1)
	}
	return nil
}

func span(c, r, n int) (lo, hi int) {
	return max(c-r, 0), min(c+r, n)
}

// Band sets a width by length rectangle whose corner is at
// (offsetX, offsetY). A 1D grid gets the segment [offsetX, offsetX+width)
// and a 0D grid its single point. Nothing is written when the band does
// not fit.
func (sd Seeder) Band(field int, v float64, width, length, offsetX, offsetY int) error {
	if err := sd.checkField(field); err != nil {
		return err
	}
	if width < 0 || length < 0 {
		return fmt.Errorf("%w: band %dx%d", ErrInvalidConfig, width, length)
	}
	nx, ny := sd.s.Shape()
	switch sd.s.Dimension() {
	case Dim0:
		sd.fill(field, v, 0, 1, 0, 1)
	case Dim1:
		if offsetX < 0 || offsetX+width > nx {
			return fmt.Errorf("%w: band x [%d,%d) on %d points", ErrOutOfBounds, offsetX, offsetX+width, nx)
		}
		sd.fill(field, v, offsetX, offsetX+width, 0, 1)
	default:
		if offsetX < 0 || offsetX+width > nx {
			return fmt.Errorf("%w: band x [%d,%d) on %d points", ErrOutOfBounds, offsetX, offsetX+width, nx)
		}
		if offsetY < 0 || offsetY+length > ny {
			return fmt.Errorf("%w: band y [%d,%d) on %d points", ErrOutOfBounds, offsetY, offsetY+length, ny)
		}
		sd.fill(field, v, offsetX, offsetX+width, offsetY, offsetY+length)
	}
	return nil
}
