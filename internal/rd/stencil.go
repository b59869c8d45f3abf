package rd

// stencil is the second-order central difference Laplacian.
type stencil struct {
	dim      Dimension
	boundary Boundary
	dh2      float64
}

func laplacian1D(left, right, centre, dh2 float64) float64 {
	return (left + right - 2*centre) / dh2
}

func laplacian2D(left, right, up, down, centre, dh2 float64) float64 {
	return (left + right + up + down - 4*centre) / dh2
}

// laplacian evaluates field f at (x, y). Interior points read their true
// neighbours; edge and corner points substitute missing ones through the
// boundary condition.
func (st stencil) laplacian(s *Slice, f, x, y int, pos position) float64 {
	if st.dim == Dim0 {
		return 0
	}
	c := s.at(f, x, y)
	if pos == interior {
		if st.dim == Dim1 {
			return laplacian1D(s.at(f, x-1, y), s.at(f, x+1, y), c, st.dh2)
		}
		return laplacian2D(s.at(f, x-1, y), s.at(f, x+1, y), s.at(f, x, y-1), s.at(f, x, y+1), c, st.dh2)
	}

	left := st.neighbour(s, f, x, y, -1, 0)
	right := st.neighbour(s, f, x, y, 1, 0)
	if st.dim == Dim1 {
		return laplacian1D(left, right, c, st.dh2)
	}
	up := st.neighbour(s, f, x, y, 0, -1)
	down := st.neighbour(s, f, x, y, 0, 1)
	return laplacian2D(left, right, up, down, c, st.dh2)
}

func (st stencil) neighbour(s *Slice, f, x, y, dx, dy int) float64 {
	nx, ny := x+dx, y+dy
	if nx >= 0 && nx < s.nx && ny >= 0 && ny < s.ny {
		return s.at(f, nx, ny)
	}
	return st.boundary.outside(s, f, x, y, nx, ny)
}
