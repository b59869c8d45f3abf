package models

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// Karma is the two-variable model of Karma (1994), gamma = 1.1 parameters.
type Karma struct {
	kinetics
	forcing
	TauE, TauN float64
	EStar, En  float64
	Re         float64
	M          float64
}

func NewKarma(de, dn float64) *Karma {
	return &Karma{
		kinetics: kinetics{name: "ka", diff: []float64{de, dn}},
		TauE:     2.5,
		TauN:     250,
		EStar:    1.5415,
		En:       1,
		Re:       0.8,
		M:        6,
	}
}

func (m *Karma) Reaction(s *rd.Slice, x, y int, dst []float64) {
	e, n := s.At(0, x, y), s.At(1, x, y)
	h := (1 - math.Tanh(e-m.En)) * e * e / 2
	f := -e + (m.EStar-math.Pow(n, m.M))*h + m.current

	theta := heaviside(e-m.En, false)
	r := (1 - (1-math.Exp(-m.Re))*n) / (1 - math.Exp(-m.Re))
	g := r*theta - (1-theta)*n

	dst[0] = f / m.TauE
	dst[1] = g / m.TauN
}

func (m *Karma) DefaultState() []float64 { return []float64{0, 0} }

func (m *Karma) params() params {
	return params{"tauE": &m.TauE, "tauN": &m.TauN, "eStar": &m.EStar, "en": &m.En, "re": &m.Re, "m": &m.M}
}

func (m *Karma) GetParams() map[string]float64 { return m.params().values() }
func (m *Karma) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
