package rd

import "fmt"

// Slice holds every field of the grid at one instant, laid out as
// [field][x][y]. Other packages can read a Slice but never write it.
type Slice struct {
	fields int
	nx, ny int
	data   []float64
}

func newSlice(fields, nx, ny int) *Slice {
	return &Slice{
		fields: fields,
		nx:     nx,
		ny:     ny,
		data:   make([]float64, fields*nx*ny),
	}
}

// Fields returns the number of coupled fields.
func (s *Slice) Fields() int { return s.fields }

// NX returns the number of points along x.
func (s *Slice) NX() int { return s.nx }

// NY returns the number of points along y.
func (s *Slice) NY() int { return s.ny }

// Contains reports whether (field, x, y) addresses a point of the slice.
func (s *Slice) Contains(field, x, y int) bool {
	return field >= 0 && field < s.fields &&
		x >= 0 && x < s.nx &&
		y >= 0 && y < s.ny
}

// At returns the value of field at (x, y). It panics on an index outside
// the slice; coordinates never wrap.
func (s *Slice) At(field, x, y int) float64 {
	if !s.Contains(field, x, y) {
		panic(fmt.Sprintf("rd: slice index (%d,%d,%d) out of range [%d][%d][%d]",
			field, x, y, s.fields, s.nx, s.ny))
	}
	return s.data[s.offset(field, x, y)]
}

// Point copies the values of all fields at (x, y) into dst and returns it.
func (s *Slice) Point(x, y int, dst []float64) []float64 {
	dst = dst[:0]
	for f := 0; f < s.fields; f++ {
		dst = append(dst, s.At(f, x, y))
	}
	return dst
}

// Sum adds up one field over the whole slice.
func (s *Slice) Sum(field int) float64 {
	start := s.offset(field, 0, 0)
	var total float64
	for _, v := range s.data[start : start+s.nx*s.ny] {
		total += v
	}
	return total
}

// Clone returns a deep copy.
func (s *Slice) Clone() *Slice {
	c := &Slice{fields: s.fields, nx: s.nx, ny: s.ny, data: make([]float64, len(s.data))}
	copy(c.data, s.data)
	return c
}

func (s *Slice) offset(field, x, y int) int {
	return (field*s.nx+x)*s.ny + y
}

// at skips the range check for the stepping loop.
func (s *Slice) at(field, x, y int) float64 {
	return s.data[(field*s.nx+x)*s.ny+y]
}

func (s *Slice) set(field, x, y int, v float64) {
	s.data[(field*s.nx+x)*s.ny+y] = v
}

func (s *Slice) row(field, y int) []float64 {
	out := make([]float64, s.nx)
	for x := range out {
		out[x] = s.at(field, x, y)
	}
	return out
}

func (s *Slice) column(field, x int) []float64 {
	out := make([]float64, s.ny)
	start := s.offset(field, x, 0)
	copy(out, s.data[start:start+s.ny])
	return out
}

// extendX returns a copy widened to nx points, filling new columns from the
// last old one.
func (s *Slice) extendX(nx int) *Slice {
	out := newSlice(s.fields, nx, s.ny)
	for f := 0; f < s.fields; f++ {
		for x := 0; x < nx; x++ {
			src := min(x, s.nx-1)
			for y := 0; y < s.ny; y++ {
				out.set(f, x, y, s.at(f, src, y))
			}
		}
	}
	return out
}

// extendY returns a copy widened to ny points, filling new rows from the
// last old one.
func (s *Slice) extendY(ny int) *Slice {
	out := newSlice(s.fields, s.nx, ny)
	for f := 0; f < s.fields; f++ {
		for x := 0; x < s.nx; x++ {
			for y := 0; y < ny; y++ {
				out.set(f, x, y, s.at(f, x, min(y, s.ny-1)))
			}
		}
	}
	return out
}
