package models

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// BeelerReuter is the 1977 ventricular myocyte model. Fields are V, the
// gates m, h, j, d, f, x1 and intracellular calcium.
type BeelerReuter struct {
	kinetics
	forcing
	Cm   float64
	ENa  float64
	GNa  float64
	GNaC float64
	GS   float64
}

func NewBeelerReuter(dv, dm, dh, dj, dd, df, dx1, dca float64) *BeelerReuter {
	return &BeelerReuter{
		kinetics: kinetics{name: "br", diff: []float64{dv, dm, dh, dj, dd, df, dx1, dca}},
		Cm:       1,
		ENa:      50,
		GNa:      4,
		GNaC:     0.003,
		GS:       0.09,
	}
}

func (m *BeelerReuter) Reaction(s *rd.Slice, x, y int, dst []float64) {
	v := s.At(0, x, y)
	gm, gh, gj := s.At(1, x, y), s.At(2, x, y), s.At(3, x, y)
	gd, gf, x1 := s.At(4, x, y), s.At(5, x, y), s.At(6, x, y)
	ca := s.At(7, x, y)

	iNa := (m.GNa*gm*gm*gm*gh*gj + m.GNaC) * (v - m.ENa)
	iS := m.GS * gd * gf * (v + 82.3 + 13.0287*math.Log(ca))
	iK1 := 1.4*(math.Exp(0.04*(v+85))-1)/(math.Exp(0.08*(v+53))+math.Exp(0.04*(v+53))) +
		0.07*(v+23)/(1-math.Exp(-0.04*(v+23)))
	iX1 := 0.8 * x1 * (math.Exp(0.04*(v+77)) - 1) / math.Exp(0.04*(v+35))

	dst[0] = -(iNa + iS + iK1 + iX1 - m.current) / m.Cm
	dst[1] = gate(brAlphaM(v), brBetaM(v), gm)
	dst[2] = gate(0.126*math.Exp(-0.25*(v+77)), 1.7/(math.Exp(-0.082*(v+22.5))+1), gh)
	dst[3] = gate(0.055*math.Exp(-0.25*(v+78))/(math.Exp(-0.2*(v+78))+1), 0.3/(math.Exp(-0.1*(v+32))+1), gj)
	dst[4] = gate(0.095*math.Exp(-0.01*(v-5))/(math.Exp(-0.072*(v-5))+1), 0.07*math.Exp(-0.017*(v+44))/(math.Exp(0.05*(v+44))+1), gd)
	dst[5] = gate(0.012*math.Exp(-0.008*(v+28))/(math.Exp(0.15*(v+28))+1), 0.0065*math.Exp(-0.02*(v+30))/(math.Exp(-0.2*(v+30))+1), gf)
	dst[6] = gate(0.0005*math.Exp(0.083*(v+50))/(math.Exp(0.057*(v+50))+1), 0.0013*math.Exp(-0.06*(v+20))/(math.Exp(-0.04*(v+20))+1), x1)
	dst[7] = -1e-6*iS + 0.07*(1e-6-ca)
}

// gate is the Hodgkin-Huxley gating rate a(1-g) - b g.
func gate(a, b, g float64) float64 { return a*(1-g) - b*g }

func brAlphaM(v float64) float64 { return -(v + 47) / (math.Exp(-0.1*(v+47)) - 1) }
func brBetaM(v float64) float64  { return 40 * math.Exp(-0.056*(v+72)) }

func (m *BeelerReuter) DefaultState() []float64 {
	return []float64{
		-84.57375612225653, 0.010981968723265758, 0.9877211754875601, 0.9748381389815388,
		0.0029707246632091067, 0.9999813338933937, 0.005628650570534315, 1.7820072156200738e-7,
	}
}

func (m *BeelerReuter) params() params {
	return params{"cm": &m.Cm, "eNa": &m.ENa, "gNa": &m.GNa, "gNaC": &m.GNaC, "gS": &m.GS}
}

func (m *BeelerReuter) GetParams() map[string]float64 { return m.params().values() }
func (m *BeelerReuter) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
