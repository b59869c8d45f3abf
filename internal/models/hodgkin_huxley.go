package models

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// HodgkinHuxley is the squid axon model with voltage shifted so rest is 0 mV.
type HodgkinHuxley struct {
	kinetics
	forcing
	Cm       float64
	GNa, ENa float64
	GK, EK   float64
	GL, EL   float64
}

func NewHodgkinHuxley(dv, dm, dh, dn float64) *HodgkinHuxley {
	return &HodgkinHuxley{
		kinetics: kinetics{name: "hh", diff: []float64{dv, dm, dh, dn}},
		Cm:       1,
		GNa:      120,
		ENa:      115,
		GK:       36,
		EK:       -12,
		GL:       0.3,
		EL:       10.6,
	}
}

func (m *HodgkinHuxley) Reaction(s *rd.Slice, x, y int, dst []float64) {
	v, gm, gh, gn := s.At(0, x, y), s.At(1, x, y), s.At(2, x, y), s.At(3, x, y)

	iNa := m.GNa * gm * gm * gm * gh * (v - m.ENa)
	iK := m.GK * gn * gn * gn * gn * (v - m.EK)
	iL := m.GL * (v - m.EL)

	am := 0.1 * (25 - v) / (math.Exp(0.1*(25-v)) - 1)
	bm := 4 * math.Exp(-v/18)
	ah := 0.07 * math.Exp(-v/20)
	bh := 1 / (math.Exp(0.1*(30-v)) + 1)
	an := 0.01 * (10 - v) / (math.Exp(0.1*(10-v)) - 1)
	bn := 0.125 * math.Exp(-v/80)

	dst[0] = -(iNa + iK + iL - m.current) / m.Cm
	dst[1] = am*(1-gm) - bm*gm
	dst[2] = ah*(1-gh) - bh*gh
	dst[3] = an*(1-gn) - bn*gn
}

func (m *HodgkinHuxley) DefaultState() []float64 {
	return []float64{2.775662655567501e-4, 0.05293421762086476, 0.5961110463468148, 0.3176811675797801}
}

func (m *HodgkinHuxley) params() params {
	return params{
		"cm": &m.Cm, "gNa": &m.GNa, "eNa": &m.ENa,
		"gK": &m.GK, "eK": &m.EK, "gL": &m.GL, "eL": &m.EL,
	}
}

func (m *HodgkinHuxley) GetParams() map[string]float64 { return m.params().values() }
func (m *HodgkinHuxley) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
