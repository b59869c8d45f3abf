package rd

import (
	"errors"
	"math"
	"testing"
)

type testModel struct {
	name     string
	diff     []float64
	reaction func(s *Slice, x, y int, dst []float64)
}

func (m *testModel) Name() string                  { return m.name }
func (m *testModel) FieldCount() int               { return len(m.diff) }
func (m *testModel) DiffusionConstants() []float64 { return m.diff }
func (m *testModel) Reaction(s *Slice, x, y int, dst []float64) {
	if m.reaction != nil {
		m.reaction(s, x, y, dst)
	}
}

func heat(d float64) *testModel {
	return &testModel{name: "heat", diff: []float64{d}}
}

func mustNew(t *testing.T, m Model, cfg Config) *Solver {
	t.Helper()
	s, err := New(m, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func cable(n int, b Boundary) Config {
	return Config{Dimension: Dim1, Boundary: b, Dt: 0.01, Dh: 1, NX: n, NY: 1}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"unknown dimension", func(c *Config) { c.Dimension = 3 }, true},
		{"unknown boundary", func(c *Config) { c.Boundary = 7 }, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, true},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }, true},
		{"zero dh", func(c *Config) { c.Dh = 0 }, true},
		{"zero dh at 0D", func(c *Config) { c.Dimension = Dim0; c.Dh = 0 }, false},
		{"zero nx", func(c *Config) { c.NX = 0 }, true},
		{"zero ny at 1D", func(c *Config) { c.NY = 0 }, false},
		{"zero ny at 2D", func(c *Config) { c.Dimension = Dim2; c.NY = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewRejectsBadModel(t *testing.T) {
	bad := &testModel{name: "bad", diff: []float64{}}
	if _, err := New(bad, DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero fields, got %v", err)
	}
	if _, err := New(nil, DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for nil model, got %v", err)
	}
}

func TestShapeFollowsDimension(t *testing.T) {
	tests := []struct {
		dim    Dimension
		nx, ny int
	}{
		{Dim0, 1, 1},
		{Dim1, 12, 1},
		{Dim2, 12, 7},
	}
	for _, tt := range tests {
		s := mustNew(t, heat(1), Config{Dimension: tt.dim, Boundary: Zero, Dt: 0.1, Dh: 1, NX: 12, NY: 7})
		nx, ny := s.Shape()
		if nx != tt.nx || ny != tt.ny {
			t.Errorf("%v: shape = %dx%d, want %dx%d", tt.dim, nx, ny, tt.nx, tt.ny)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		tag  string
		want Boundary
		ok   bool
	}{
		{"zero", Zero, true},
		{"noflux", NoFlux, true},
		{" Periodic ", Periodic, true},
		{"mirror", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseBoundary(tt.tag)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseBoundary(%q) = %v, %v", tt.tag, got, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseBoundary(%q) error = %v, want ErrInvalidConfig", tt.tag, err)
		}
	}

	var b Boundary
	if err := b.UnmarshalText([]byte("periodic")); err != nil || b != Periodic {
		t.Errorf("UnmarshalText = %v, %v", b, err)
	}
	text, err := NoFlux.MarshalText()
	if err != nil || string(text) != "noflux" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		dim  Dimension
		x, y int
		want position
	}{
		{Dim1, 0, 0, edge},
		{Dim1, 4, 0, interior},
		{Dim1, 9, 0, edge},
		{Dim2, 0, 0, corner},
		{Dim2, 9, 4, corner},
		{Dim2, 0, 2, edge},
		{Dim2, 3, 4, edge},
		{Dim2, 3, 2, interior},
	}
	for _, tt := range tests {
		if got := classify(tt.dim, tt.x, tt.y, 10, 5); got != tt.want {
			t.Errorf("classify(%v, %d, %d) = %d, want %d", tt.dim, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{-1, 10, 9},
		{10, 10, 0},
		{3, 10, 3},
		{-11, 10, 9},
	}
	for _, tt := range tests {
		if got := wrap(tt.i, tt.n); got != tt.want {
			t.Errorf("wrap(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestBoundarySubstitution(t *testing.T) {
	s := newSlice(1, 4, 1)
	for x, v := range []float64{1, 2, 3, 4} {
		s.set(0, x, 0, v)
	}
	tests := []struct {
		b           Boundary
		left, right float64
	}{
		{Zero, 0, 0},
		{NoFlux, 1, 4},
		{Periodic, 4, 1},
	}
	for _, tt := range tests {
		st := stencil{dim: Dim1, boundary: tt.b, dh2: 1}
		if got := st.neighbour(s, 0, 0, 0, -1, 0); got != tt.left {
			t.Errorf("%v: left of 0 = %v, want %v", tt.b, got, tt.left)
		}
		if got := st.neighbour(s, 0, 3, 0, 1, 0); got != tt.right {
			t.Errorf("%v: right of 3 = %v, want %v", tt.b, got, tt.right)
		}
	}
}

func TestPeriodicCorner(t *testing.T) {
	s := newSlice(1, 3, 3)
	s.set(0, 2, 0, 5)
	s.set(0, 0, 2, 7)
	st := stencil{dim: Dim2, boundary: Periodic, dh2: 1}
	if got := st.neighbour(s, 0, 0, 0, -1, 0); got != 5 {
		t.Errorf("left of corner = %v, want 5", got)
	}
	if got := st.neighbour(s, 0, 0, 0, 0, -1); got != 7 {
		t.Errorf("above corner = %v, want 7", got)
	}
}

func TestLaplacian(t *testing.T) {
	if got := laplacian1D(1, 3, 2, 0.25); got != 0 {
		t.Errorf("laplacian1D linear = %v", got)
	}
	if got := laplacian1D(1, 1, 0, 0.5); got != 4 {
		t.Errorf("laplacian1D = %v, want 4", got)
	}
	if got := laplacian2D(1, 1, 1, 1, 0, 1); got != 4 {
		t.Errorf("laplacian2D = %v, want 4", got)
	}
	st := stencil{dim: Dim0}
	if got := st.laplacian(newSlice(1, 1, 1), 0, 0, 0, corner); got != 0 {
		t.Errorf("0D laplacian = %v", got)
	}
}

func TestAdvanceRejectsNonPositiveSteps(t *testing.T) {
	s := mustNew(t, heat(1), cable(5, Zero))
	for _, n := range []int{0, -3} {
		if err := s.Advance(n); !errors.Is(err, ErrInvalidSteps) {
			t.Errorf("Advance(%d) error = %v, want ErrInvalidSteps", n, err)
		}
	}
	if s.Steps() != 0 || s.Elapsed() != 0 {
		t.Errorf("rejected advance moved the clock: steps=%d t=%v", s.Steps(), s.Elapsed())
	}
}

func TestElapsedAccumulates(t *testing.T) {
	s := mustNew(t, heat(1), cable(5, Zero))
	if err := s.Advance(250); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Elapsed()-2.5) > 1e-9 {
		t.Errorf("Elapsed() = %v, want 2.5", s.Elapsed())
	}
	if s.Steps() != 250 {
		t.Errorf("Steps() = %d, want 250", s.Steps())
	}
	s.SetElapsed(0)
	if s.Elapsed() != 0 {
		t.Errorf("SetElapsed did not reset the clock")
	}
}

func TestNonFiniteDetection(t *testing.T) {
	m := &testModel{
		name: "blowup",
		diff: []float64{0},
		reaction: func(s *Slice, x, y int, dst []float64) {
			dst[0] = 1 / s.At(0, x, y)
		},
	}
	cfg := cable(4, NoFlux)
	cfg.ValidateState = true
	s := mustNew(t, m, cfg)

	err := s.Advance(3)
	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %v", err)
	}
	if !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite in chain, got %v", err)
	}
	if simErr.Step != 1 || simErr.X != 0 || simErr.Field != 0 {
		t.Errorf("unexpected location %+v", simErr)
	}
	if err := s.Advance(1); !errors.Is(err, ErrPoisoned) {
		t.Errorf("expected ErrPoisoned after failure, got %v", err)
	}
}

func TestNonFiniteIgnoredWithoutValidation(t *testing.T) {
	m := &testModel{
		name: "blowup",
		diff: []float64{0},
		reaction: func(s *Slice, x, y int, dst []float64) {
			dst[0] = 1 / s.At(0, x, y)
		},
	}
	s := mustNew(t, m, cable(4, NoFlux))
	if err := s.Advance(1); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	v, _ := s.Value(0, 0, 0)
	if !math.IsInf(v, 1) {
		t.Errorf("value = %v, want +Inf", v)
	}
}

func TestAccessors(t *testing.T) {
	s := mustNew(t, &testModel{name: "pair", diff: []float64{1, 0}},
		Config{Dimension: Dim2, Boundary: Zero, Dt: 0.1, Dh: 1, NX: 3, NY: 2})

	if err := s.Set(1, 2, 1, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.Stimulate(1, 2, 1, 0.5); err != nil {
		t.Fatal(err)
	}
	v, err := s.Value(1, 2, 1)
	if err != nil || v != 4.5 {
		t.Errorf("Value = %v, %v; want 4.5", v, err)
	}
	above, err := s.IsAbove(1, 2, 1, 4)
	if err != nil || !above {
		t.Errorf("IsAbove = %v, %v", above, err)
	}

	row, err := s.Row(1, 1)
	if err != nil || len(row) != 3 || row[2] != 4.5 {
		t.Errorf("Row = %v, %v", row, err)
	}
	col, err := s.Column(1, 2)
	if err != nil || len(col) != 2 || col[1] != 4.5 {
		t.Errorf("Column = %v, %v", col, err)
	}

	bad := []struct{ f, x, y int }{{2, 0, 0}, {0, 3, 0}, {0, 0, 2}, {-1, 0, 0}, {0, -1, 0}}
	for _, b := range bad {
		if _, err := s.Value(b.f, b.x, b.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Value(%d,%d,%d) error = %v", b.f, b.x, b.y, err)
		}
		if err := s.Set(b.f, b.x, b.y, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d,%d,%d) error = %v", b.f, b.x, b.y, err)
		}
	}
	if _, err := s.Row(0, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Row out of range error = %v", err)
	}

	if s.FieldCount() != 2 || s.ModelName() != "pair" {
		t.Errorf("model identity = %d %q", s.FieldCount(), s.ModelName())
	}
}

func TestSliceAtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	newSlice(1, 3, 2).At(0, 1, 2)
}

func TestResizeExtendsEdges(t *testing.T) {
	s := mustNew(t, heat(1), Config{Dimension: Dim2, Boundary: Zero, Dt: 0.1, Dh: 1, NX: 2, NY: 2})
	vals := [][]float64{{1, 2}, {3, 4}}
	for x := range vals {
		for y, v := range vals[x] {
			_ = s.Set(0, x, y, v)
		}
	}

	if err := s.ResizeX(4); err != nil {
		t.Fatal(err)
	}
	if err := s.ResizeY(3); err != nil {
		t.Fatal(err)
	}
	want := [][]float64{
		{1, 2, 2},
		{3, 4, 4},
		{3, 4, 4},
		{3, 4, 4},
	}
	for x := range want {
		for y, w := range want[x] {
			if got, _ := s.Value(0, x, y); got != w {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, w)
			}
		}
	}
	if nx, ny := s.Shape(); nx != 4 || ny != 3 {
		t.Errorf("shape = %dx%d", nx, ny)
	}
	if s.Config().NX != 4 || s.Config().NY != 3 {
		t.Errorf("config not updated: %+v", s.Config())
	}

	// both slots must carry the new shape
	if err := s.Advance(1); err != nil {
		t.Fatal(err)
	}
	if nx, ny := s.Shape(); nx != 4 || ny != 3 {
		t.Errorf("shape after step = %dx%d", nx, ny)
	}
}

func TestResizeErrors(t *testing.T) {
	s := mustNew(t, heat(1), cable(5, Zero))
	if err := s.ResizeX(3); !errors.Is(err, ErrShrink) {
		t.Errorf("shrink error = %v", err)
	}
	if err := s.ResizeY(3); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("1D y resize error = %v", err)
	}
	if err := s.ResizeX(5); err != nil {
		t.Errorf("same size resize: %v", err)
	}

	point := mustNew(t, heat(1), Config{Dimension: Dim0, Dt: 0.1})
	if err := point.ResizeX(2); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("0D resize error = %v", err)
	}
}

type countingObserver struct {
	calls int
	last  float64
}

func (c *countingObserver) OnStep(s *Slice, t float64) {
	c.calls++
	c.last = t
}

func TestObserversRunEachStep(t *testing.T) {
	s := mustNew(t, heat(1), cable(5, Zero))
	obs := &countingObserver{}
	s.AddObserver(obs)
	if err := s.Advance(7); err != nil {
		t.Fatal(err)
	}
	if obs.calls != 7 {
		t.Errorf("calls = %d, want 7", obs.calls)
	}
	if math.Abs(obs.last-0.07) > 1e-12 {
		t.Errorf("last time = %v", obs.last)
	}
}

func TestStimulusReadEveryStep(t *testing.T) {
	m := &stimulated{}
	s := mustNew(t, m, Config{Dimension: Dim0, Dt: 1})
	if err := s.Advance(1); err != nil {
		t.Fatal(err)
	}
	m.SetStimulus(2)
	if err := s.Advance(1); err != nil {
		t.Fatal(err)
	}
	v, _ := s.Value(0, 0, 0)
	if v != 2 {
		t.Errorf("value = %v, want 2", v)
	}
}

type stimulated struct{ i float64 }

func (m *stimulated) Name() string                  { return "stim" }
func (m *stimulated) FieldCount() int               { return 1 }
func (m *stimulated) DiffusionConstants() []float64 { return []float64{0} }
func (m *stimulated) SetStimulus(v float64)         { m.i = v }
func (m *stimulated) Stimulus() float64             { return m.i }
func (m *stimulated) Reaction(s *Slice, x, y int, dst []float64) {
	dst[0] = m.i
}
