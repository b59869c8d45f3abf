package models

import "github.com/san-kum/rdsim/internal/rd"

// Heat is pure diffusion.
type Heat struct{ kinetics }

func NewHeat(d float64) *Heat {
	return &Heat{kinetics{name: "heat", diff: []float64{d}}}
}

func (h *Heat) Reaction(_ *rd.Slice, _, _ int, dst []float64) { dst[0] = 0 }
func (h *Heat) DefaultState() []float64                       { return []float64{0} }
func (h *Heat) GetParams() map[string]float64                 { return map[string]float64{} }
func (h *Heat) SetParam(n string, v float64) error            { return params{}.set(h.name, n, v) }

// FitzHughNagumo is the cubic excitable medium with recovery variable w.
type FitzHughNagumo struct {
	kinetics
	forcing
	A, B, Eps float64
}

func NewFitzHughNagumo(du, dv float64) *FitzHughNagumo {
	return &FitzHughNagumo{
		kinetics: kinetics{name: "fhn", diff: []float64{du, dv}},
		A:        0.02,
		B:        0.25,
		Eps:      0.003,
	}
}

func (m *FitzHughNagumo) Reaction(s *rd.Slice, x, y int, dst []float64) {
	v, w := s.At(0, x, y), s.At(1, x, y)
	dst[0] = -v*(v-1)*(v-m.A) - w + m.current
	dst[1] = m.Eps * (v - m.B*w)
}

func (m *FitzHughNagumo) DefaultState() []float64 { return []float64{0, 0} }

func (m *FitzHughNagumo) params() params {
	return params{"a": &m.A, "b": &m.B, "eps": &m.Eps}
}

func (m *FitzHughNagumo) GetParams() map[string]float64 { return m.params().values() }
func (m *FitzHughNagumo) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}

// Oregonator is the two-variable Belousov-Zhabotinsky reduction.
type Oregonator struct {
	kinetics
	Eps, Phi, Q, F float64
}

func NewOregonator(du, dv float64) *Oregonator {
	return &Oregonator{
		kinetics: kinetics{name: "ore", diff: []float64{du, dv}},
		Eps:      1.0 / 0.08,
		Phi:      0.0071,
		Q:        0.005,
		F:        1.4,
	}
}

func (m *Oregonator) Reaction(s *rd.Slice, x, y int, dst []float64) {
	u, v := s.At(0, x, y), s.At(1, x, y)
	dst[0] = m.Eps * (u - u*u - (m.F*v+m.Phi)*(u-m.Q)/(u+m.Q))
	dst[1] = u - v
}

func (m *Oregonator) DefaultState() []float64 { return []float64{0, 0} }

func (m *Oregonator) params() params {
	return params{"eps": &m.Eps, "phi": &m.Phi, "q": &m.Q, "f": &m.F}
}

func (m *Oregonator) GetParams() map[string]float64 { return m.params().values() }
func (m *Oregonator) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
