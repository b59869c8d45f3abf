package rd

import (
	"fmt"
	"strings"
)

// Dimension is the spatial rank of the grid.
type Dimension int

const (
	Dim0 Dimension = iota
	Dim1
	Dim2
)

// Valid reports whether d is 0, 1 or 2.
func (d Dimension) Valid() bool { return d >= Dim0 && d <= Dim2 }

func (d Dimension) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return fmt.Sprintf("%dD", int(d))
}

// Boundary selects how missing neighbours are synthesised at the grid edge.
type Boundary int

const (
	// Zero is the Dirichlet condition: outside values are 0.
	Zero Boundary = iota
	// NoFlux is the Neumann condition: outside values mirror the point itself.
	NoFlux
	// Periodic wraps the grid into a torus.
	Periodic
)

var boundaryNames = map[Boundary]string{
	Zero:     "zero",
	NoFlux:   "noflux",
	Periodic: "periodic",
}

// Valid reports whether b is one of the known conditions.
func (b Boundary) Valid() bool {
	_, ok := boundaryNames[b]
	return ok
}

func (b Boundary) String() string {
	if name, ok := boundaryNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary maps a configuration tag to a Boundary.
func ParseBoundary(tag string) (Boundary, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for b, name := range boundaryNames {
		if name == t {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown boundary condition %q", ErrInvalidConfig, tag)
}

func (b Boundary) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: unknown boundary condition %d", ErrInvalidConfig, int(b))
	}
	return []byte(b.String()), nil
}

func (b *Boundary) UnmarshalText(text []byte) error {
	v, err := ParseBoundary(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// outside returns the stand-in for field f at (nx, ny), a point off the
// grid, as seen from the edge point (x, y).
func (b Boundary) outside(s *Slice, f, x, y, nx, ny int) float64 {
	switch b {
	case Zero:
		return 0
	case NoFlux:
		return s.at(f, x, y)
	default:
		return s.at(f, wrap(nx, s.nx), wrap(ny, s.ny))
	}
}

// wrap folds i onto [0, n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// position classifies a grid point by how many axes it touches the edge on.
type position uint8

const (
	interior position = iota
	edge
	corner
)

func classify(dim Dimension, x, y, nx, ny int) position {
	touches := 0
	if x == 0 || x == nx-1 {
		touches++
	}
	if dim == Dim2 && (y == 0 || y == ny-1) {
		touches++
	}
	switch touches {
	case 0:
		return interior
	case 1:
		return edge
	default:
		return corner
	}
}
