package models

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// FentonKarma is the three-variable model with the Cherry and Fenton (2004)
// "model 2" parameter set.
type FentonKarma struct {
	kinetics
	forcing
	TauVPlus, TauV1Minus, TauV2Minus float64
	TauWPlus, TauWMinus              float64
	TauD, Tau0, TauR, TauSi          float64
	K1, K2                           float64
	VcSi, Vc, Vr, Vv, Vfi            float64
}

func NewFentonKarma(du, dv, dw float64) *FentonKarma {
	return &FentonKarma{
		kinetics:   kinetics{name: "fk", diff: []float64{du, dv, dw}},
		TauVPlus:   10,
		TauV1Minus: 100,
		TauV2Minus: 20,
		TauWPlus:   800,
		TauWMinus:  45,
		TauD:       0.15,
		Tau0:       1.5,
		TauR:       31,
		TauSi:      26.5,
		K1:         10,
		K2:         1,
		VcSi:       0.7,
		Vc:         0.25,
		Vr:         0.6,
		Vv:         0.05,
		Vfi:        0.11,
	}
}

func (m *FentonKarma) Reaction(s *rd.Slice, x, y int, dst []float64) {
	u, v, w := s.At(0, x, y), s.At(1, x, y), s.At(2, x, y)
	p := heaviside(u-m.Vc, true)
	q := heaviside(u-m.Vv, true)
	r := heaviside(u-m.Vr, true)

	iFi := -v * p * (u - m.Vfi) * (1 - u) / m.TauD
	iSo := u*(1-r)*(1-v*m.K2)/m.Tau0 + r/m.TauR
	iSi := -w * (1 + math.Tanh(m.K1*(u-m.VcSi))) / (2 * m.TauSi)

	dst[0] = -(iFi + iSo + iSi) + m.current
	dst[1] = (1-p)*(1-v)/((1-q)*m.TauV1Minus+q*m.TauV2Minus) - p*v/m.TauVPlus
	dst[2] = (1-p)*(1-w)/m.TauWMinus - p*w/m.TauWPlus
}

func (m *FentonKarma) DefaultState() []float64 { return []float64{0, 1, 1} }

func (m *FentonKarma) params() params {
	return params{
		"tauVPlus": &m.TauVPlus, "tauV1Minus": &m.TauV1Minus, "tauV2Minus": &m.TauV2Minus,
		"tauWPlus": &m.TauWPlus, "tauWMinus": &m.TauWMinus,
		"tauD": &m.TauD, "tau0": &m.Tau0, "tauR": &m.TauR, "tauSi": &m.TauSi,
		"k1": &m.K1, "k2": &m.K2,
		"vcSi": &m.VcSi, "vc": &m.Vc, "vr": &m.Vr, "vv": &m.Vv, "vfi": &m.Vfi,
	}
}

func (m *FentonKarma) GetParams() map[string]float64 { return m.params().values() }
func (m *FentonKarma) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
