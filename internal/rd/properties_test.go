package rd_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/rd"
)

// diffusionOnly has no reaction term.
type diffusionOnly struct{ d []float64 }

func (m diffusionOnly) Name() string                                  { return "diffusion" }
func (m diffusionOnly) FieldCount() int                               { return len(m.d) }
func (m diffusionOnly) DiffusionConstants() []float64                 { return m.d }
func (m diffusionOnly) Reaction(s *rd.Slice, x, y int, dst []float64) {}

// logistic couples a diffusing field u to a local field w with D=0.
type logistic struct{}

func (logistic) Name() string                  { return "logistic" }
func (logistic) FieldCount() int               { return 2 }
func (logistic) DiffusionConstants() []float64 { return []float64{0.8, 0} }
func (logistic) Reaction(s *rd.Slice, x, y int, dst []float64) {
	u, w := s.At(0, x, y), s.At(1, x, y)
	dst[0] = u * (1 - u)
	dst[1] = w*(1-w) - 0.3*w
}

func build(m rd.Model, cfg rd.Config) *rd.Solver {
	s, err := rd.New(m, cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func row(s *rd.Solver) []float64 {
	r, err := s.Row(0, 0)
	Expect(err).NotTo(HaveOccurred())
	return r
}

func seedRamp(s *rd.Solver, field int, scale float64) {
	nx, ny := s.Shape()
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			v := scale * float64((x*7+y*3)%11) / 11
			Expect(s.Set(field, x, y, v)).To(Succeed())
		}
	}
}

var _ = Describe("Solver", func() {
	Describe("zero diffusion fields", func() {
		DescribeTable("evolve as independent point ODEs",
			func(dim rd.Dimension, b rd.Boundary) {
				cfg := rd.Config{Dimension: dim, Boundary: b, Dt: 0.05, Dh: 0.5, NX: 6, NY: 4}
				s := build(logistic{}, cfg)
				seedRamp(s, 0, 1)
				seedRamp(s, 1, 0.9)
				Expect(s.Advance(40)).To(Succeed())

				nx, ny := s.Shape()
				for x := 0; x < nx; x++ {
					for y := 0; y < ny; y++ {
						point := build(logistic{}, rd.Config{Dimension: rd.Dim0, Dt: 0.05})
						Expect(point.Set(1, 0, 0, 0.9*float64((x*7+y*3)%11)/11)).To(Succeed())
						Expect(point.Advance(40)).To(Succeed())

						want, _ := point.Value(1, 0, 0)
						got, _ := s.Value(1, x, y)
						Expect(got).To(Equal(want), "point (%d,%d)", x, y)
					}
				}
			},
			Entry("1D zero", rd.Dim1, rd.Zero),
			Entry("1D noflux", rd.Dim1, rd.NoFlux),
			Entry("1D periodic", rd.Dim1, rd.Periodic),
			Entry("2D zero", rd.Dim2, rd.Zero),
			Entry("2D noflux", rd.Dim2, rd.NoFlux),
			Entry("2D periodic", rd.Dim2, rd.Periodic),
		)
	})

	Describe("buffer alternation", func() {
		It("flips the active slot once per step", func() {
			s := build(logistic{}, rd.Config{Dimension: rd.Dim1, Boundary: rd.NoFlux, Dt: 0.05, Dh: 0.5, NX: 8})
			Expect(s.ActiveSlot()).To(Equal(rd.SlotA))
			for n := 1; n <= 5; n++ {
				Expect(s.Advance(1)).To(Succeed())
				want := rd.SlotA
				if n%2 == 1 {
					want = rd.SlotB
				}
				Expect(s.ActiveSlot()).To(Equal(want))
			}
			Expect(s.Advance(4)).To(Succeed())
			Expect(s.ActiveSlot()).To(Equal(rd.SlotB))
		})

		It("gives the same state for n single steps and one n-step call", func() {
			cfg := rd.Config{Dimension: rd.Dim2, Boundary: rd.Periodic, Dt: 0.02, Dh: 0.5, NX: 7, NY: 5}
			one := build(logistic{}, cfg)
			many := build(logistic{}, cfg)
			for _, s := range []*rd.Solver{one, many} {
				seedRamp(s, 0, 1)
				seedRamp(s, 1, 0.5)
			}

			Expect(one.Advance(25)).To(Succeed())
			for i := 0; i < 25; i++ {
				Expect(many.Advance(1)).To(Succeed())
			}

			Expect(many.ActiveSlot()).To(Equal(one.ActiveSlot()))
			for f := 0; f < 2; f++ {
				for x := 0; x < 7; x++ {
					a, _ := one.Column(f, x)
					b, _ := many.Column(f, x)
					Expect(b).To(Equal(a))
				}
			}
		})
	})

	Describe("Dirichlet boundary", func() {
		It("matches a zero padded grid", func() {
			const n = 8
			small := build(diffusionOnly{d: []float64{1}}, rd.Config{Dimension: rd.Dim1, Boundary: rd.Zero, Dt: 0.1, Dh: 1, NX: n})
			padded := build(diffusionOnly{d: []float64{1}}, rd.Config{Dimension: rd.Dim1, Boundary: rd.NoFlux, Dt: 0.1, Dh: 1, NX: n + 2})
			for x := 0; x < n; x++ {
				v := float64(x%3) + 0.5
				Expect(small.Set(0, x, 0, v)).To(Succeed())
				Expect(padded.Set(0, x+1, 0, v)).To(Succeed())
			}

			for step := 0; step < 30; step++ {
				Expect(padded.Set(0, 0, 0, 0)).To(Succeed())
				Expect(padded.Set(0, n+1, 0, 0)).To(Succeed())
				Expect(small.Advance(1)).To(Succeed())
				Expect(padded.Advance(1)).To(Succeed())

				got, want := row(small), row(padded)[1:n+1]
				for x := range got {
					Expect(got[x]).To(BeNumerically("~", want[x], 1e-12))
				}
			}
		})
	})

	Describe("periodic boundary", func() {
		It("treats the last point as the left neighbour of the first", func() {
			const dt, d = 0.1, 1.0
			s := build(diffusionOnly{d: []float64{d}}, rd.Config{Dimension: rd.Dim1, Boundary: rd.Periodic, Dt: dt, Dh: 1, NX: 6})
			for x, v := range []float64{0.2, 1, 0, 0, 0.4, 3} {
				Expect(s.Set(0, x, 0, v)).To(Succeed())
			}

			for step := 0; step < 10; step++ {
				old := row(s)
				last := len(old) - 1
				Expect(s.Advance(1)).To(Succeed())
				cur := row(s)

				Expect(cur[0]).To(BeNumerically("~", old[0]+dt*d*(old[last]+old[1]-2*old[0]), 1e-12))
				Expect(cur[last]).To(BeNumerically("~", old[last]+dt*d*(old[last-1]+old[0]-2*old[last]), 1e-12))
			}
		})

		It("commutes with cyclic shifts", func() {
			start := []float64{3, 1, 0, 0, 0, 0, 2, 0}
			cfg := rd.Config{Dimension: rd.Dim1, Boundary: rd.Periodic, Dt: 0.1, Dh: 1, NX: len(start)}
			a := build(diffusionOnly{d: []float64{1}}, cfg)
			b := build(diffusionOnly{d: []float64{1}}, cfg)
			for x, v := range start {
				Expect(a.Set(0, x, 0, v)).To(Succeed())
				Expect(b.Set(0, (x+3)%len(start), 0, v)).To(Succeed())
			}
			Expect(a.Advance(20)).To(Succeed())
			Expect(b.Advance(20)).To(Succeed())

			ra, rb := row(a), row(b)
			for x := range ra {
				Expect(rb[(x+3)%len(ra)]).To(BeNumerically("~", ra[x], 1e-12))
			}
		})

		DescribeTable("conserves the total of a pure diffusion field",
			func(cfg rd.Config) {
				s := build(diffusionOnly{d: []float64{1.3}}, cfg)
				seedRamp(s, 0, 4)
				before := s.Snapshot().Sum(0)
				for i := 0; i < 5; i++ {
					Expect(s.Advance(100)).To(Succeed())
					Expect(s.Snapshot().Sum(0)).To(BeNumerically("~", before, 1e-9))
				}
			},
			Entry("cable", rd.Config{Dimension: rd.Dim1, Boundary: rd.Periodic, Dt: 0.05, Dh: 0.7, NX: 17}),
			Entry("sheet", rd.Config{Dimension: rd.Dim2, Boundary: rd.Periodic, Dt: 0.05, Dh: 0.9, NX: 9, NY: 6}),
		)
	})

	Describe("steady relaxation", func() {
		var s *rd.Solver

		BeforeEach(func() {
			s = build(diffusionOnly{d: []float64{1}}, rd.Config{Dimension: rd.Dim1, Boundary: rd.Zero, Dt: 0.01, Dh: 1, NX: 10})
			Expect(s.Set(0, 0, 0, 1)).To(Succeed())
		})

		It("matches the hand computed first step", func() {
			Expect(s.Advance(1)).To(Succeed())
			want := []float64{0.98, 0.01, 0, 0, 0, 0, 0, 0, 0, 0}
			got := row(s)
			for x := range want {
				Expect(got[x]).To(BeNumerically("~", want[x], 1e-15))
			}
		})

		It("decays towards zero", func() {
			Expect(s.Advance(20000)).To(Succeed())
			for _, v := range row(s) {
				Expect(math.Abs(v)).To(BeNumerically("<", 1e-5))
			}
			Expect(s.Elapsed()).To(BeNumerically("~", 200, 1e-6))
		})
	})

	Describe("patch placement", func() {
		It("clamps a patch near the origin to start at zero", func() {
			s := build(diffusionOnly{d: []float64{1}}, rd.Config{Dimension: rd.Dim2, Boundary: rd.Zero, Dt: 0.1, Dh: 1, NX: 20, NY: 20})
			Expect(s.Seeder().Patch(0, 5, 2, 2, 5)).To(Succeed())

			for x := 0; x < 20; x++ {
				for y := 0; y < 20; y++ {
					v, err := s.Value(0, x, y)
					Expect(err).NotTo(HaveOccurred())
					if x < 7 && y < 7 {
						Expect(v).To(Equal(5.0), "(%d,%d)", x, y)
					} else {
						Expect(v).To(BeZero(), "(%d,%d)", x, y)
					}
				}
			}
		})
	})
})
