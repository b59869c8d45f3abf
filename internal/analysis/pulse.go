package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/rdsim/internal/rd"
)

var ErrNotCable = errors.New("analysis: pulse parameters need a 1D grid")

// PulseParams describes a pulse on a cable. Max starts from 0 and Min from 0,
// so a position stays -1 when the field never rises above (or falls below)
// zero.
type PulseParams struct {
	Max, Min       float64
	MaxPos, MinPos int
}

func (p PulseParams) String() string {
	return fmt.Sprintf("max %.4f at %d, min %.4f at %d", p.Max, p.MaxPos, p.Min, p.MinPos)
}

// Pulse scans field along the single row of a cable snapshot.
func Pulse(s *rd.Slice, field int) (PulseParams, error) {
	if s.NY() != 1 {
		return PulseParams{}, fmt.Errorf("%w: snapshot is %dx%d", ErrNotCable, s.NX(), s.NY())
	}
	if field < 0 || field >= s.Fields() {
		return PulseParams{}, fmt.Errorf("%w: field %d", rd.ErrOutOfBounds, field)
	}

	p := PulseParams{MaxPos: -1, MinPos: -1}
	for x := 0; x < s.NX(); x++ {
		v := s.At(field, x, 0)
		if v > p.Max {
			p.Max, p.MaxPos = v, x
		}
		if v < p.Min {
			p.Min, p.MinPos = v, x
		}
	}
	return p, nil
}

// Maximum returns the position and value of the largest positive value of
// field in [start, end] on row 0. The position is -1 when nothing exceeds 0.
func Maximum(s *rd.Slice, field, start, end int) (int, float64, error) {
	if start < 0 || end >= s.NX() || start > end {
		return -1, 0, fmt.Errorf("%w: window [%d,%d] on %d points", rd.ErrOutOfBounds, start, end, s.NX())
	}
	if field < 0 || field >= s.Fields() {
		return -1, 0, fmt.Errorf("%w: field %d", rd.ErrOutOfBounds, field)
	}

	pos, best := -1, 0.0
	for x := start; x <= end; x++ {
		if v := s.At(field, x, 0); v > best {
			pos, best = x, v
		}
	}
	return pos, best, nil
}
