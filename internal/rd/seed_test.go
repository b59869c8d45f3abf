package rd

import (
	"errors"
	"testing"
)

func nonzero(s *Solver, field int) (x0, x1, y0, y1 int) {
	nx, ny := s.Shape()
	x0, y0 = nx, ny
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			if v, _ := s.Value(field, x, y); v != 0 {
				x0, x1 = min(x0, x), max(x1, x+1)
				y0, y1 = min(y0, y), max(y1, y+1)
			}
		}
	}
	return
}

func sheet(nx, ny int) Config {
	return Config{Dimension: Dim2, Boundary: NoFlux, Dt: 0.1, Dh: 1, NX: nx, NY: ny}
}

func TestUniform(t *testing.T) {
	s := mustNew(t, &testModel{name: "pair", diff: []float64{1, 1}}, sheet(4, 3))
	if err := s.Seeder().Uniform(1, -84.5); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Sum(1); got != -84.5*12 {
		t.Errorf("sum = %v", got)
	}
	if got := s.Snapshot().Sum(0); got != 0 {
		t.Errorf("field 0 touched: %v", got)
	}
	if err := s.Seeder().Uniform(2, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("bad field error = %v", err)
	}
}

func TestSteady(t *testing.T) {
	s := mustNew(t, &testModel{name: "pair", diff: []float64{1, 1}}, cable(3, Zero))
	if err := s.Seeder().Steady([]float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Value(1, 2, 0); v != 2 {
		t.Errorf("value = %v", v)
	}
	if err := s.Seeder().Steady([]float64{1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("short state error = %v", err)
	}
}

func TestPatch(t *testing.T) {
	tests := []struct {
		name           string
		cfg            Config
		cx, cy, r      int
		x0, x1, y0, y1 int
	}{
		{"origin clamp", sheet(20, 20), 2, 2, 5, 0, 7, 0, 7},
		{"centre", sheet(20, 20), 10, 8, 2, 8, 12, 6, 10},
		{"far edge", sheet(20, 20), 18, 18, 5, 13, 20, 13, 20},
		{"cable", cable(30, Zero), 4, 99, 3, 1, 7, 0, 1},
		{"point", Config{Dimension: Dim0, Dt: 1}, 40, 40, 0, 0, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNew(t, heat(1), tt.cfg)
			if err := s.Seeder().Patch(0, 5, tt.cx, tt.cy, tt.r); err != nil {
				t.Fatal(err)
			}
			x0, x1, y0, y1 := nonzero(s, 0)
			if x0 != tt.x0 || x1 != tt.x1 || y0 != tt.y0 || y1 != tt.y1 {
				t.Errorf("patch = [%d,%d)x[%d,%d), want [%d,%d)x[%d,%d)",
					x0, x1, y0, y1, tt.x0, tt.x1, tt.y0, tt.y1)
			}
		})
	}
}

func TestPatchNegativeRadius(t *testing.T) {
	s := mustNew(t, heat(1), sheet(5, 5))
	if err := s.Seeder().Patch(0, 1, 2, 2, -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v", err)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		name           string
		cfg            Config
		w, l, ox, oy   int
		x0, x1, y0, y1 int
	}{
		{"sheet", sheet(10, 10), 3, 4, 2, 5, 2, 5, 5, 9},
		{"full stripe", sheet(10, 10), 2, 10, 0, 0, 0, 2, 0, 10},
		{"cable", cable(10, Zero), 4, 100, 6, 100, 6, 10, 0, 1},
		{"point", Config{Dimension: Dim0, Dt: 1}, 3, 3, 7, 7, 0, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNew(t, heat(1), tt.cfg)
			if err := s.Seeder().Band(0, 1, tt.w, tt.l, tt.ox, tt.oy); err != nil {
				t.Fatal(err)
			}
			x0, x1, y0, y1 := nonzero(s, 0)
			if x0 != tt.x0 || x1 != tt.x1 || y0 != tt.y0 || y1 != tt.y1 {
				t.Errorf("band = [%d,%d)x[%d,%d), want [%d,%d)x[%d,%d)",
					x0, x1, y0, y1, tt.x0, tt.x1, tt.y0, tt.y1)
			}
		})
	}
}

func TestBandOutOfRangeWritesNothing(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		w, l, ox, oy int
	}{
		{"x overflow", sheet(10, 10), 4, 2, 8, 0},
		{"y overflow", sheet(10, 10), 2, 4, 0, 8},
		{"negative offset", sheet(10, 10), 2, 2, -1, 0},
		{"cable overflow", cable(5, Zero), 6, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNew(t, heat(1), tt.cfg)
			err := s.Seeder().Band(0, 1, tt.w, tt.l, tt.ox, tt.oy)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("error = %v, want ErrOutOfBounds", err)
			}
			if sum := s.Snapshot().Sum(0); sum != 0 {
				t.Errorf("partial write, sum = %v", sum)
			}
		})
	}
}

func TestSeedWritesActiveSlot(t *testing.T) {
	s := mustNew(t, heat(0), cable(3, Zero))
	if err := s.Advance(1); err != nil {
		t.Fatal(err)
	}
	if s.ActiveSlot() != SlotB {
		t.Fatalf("active = %v", s.ActiveSlot())
	}
	if err := s.Seeder().Uniform(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(1); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Value(0, 1, 0); v != 3 {
		t.Errorf("seeded value lost across step: %v", v)
	}
}
