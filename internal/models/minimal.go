package models

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// MinimalParams is one cell type of the Bueno-Orovio minimal ventricular
// model.
type MinimalParams struct {
	UU, UTheta, UThetaV, UThetaW, UThetaO    float64
	TauV1Minus, TauV2Minus, TauVPlus         float64
	TauW1Minus, TauW2Minus, KWMinus, UWMinus float64
	TauWPlus                                 float64
	TauFi, TauO1, TauO2                      float64
	TauSo1, TauSo2, KSo, USo                 float64
	TauS1, TauS2, KS, US                     float64
	TauSi, TauWInf, WInfStar                 float64
}

func shared() MinimalParams {
	return MinimalParams{
		UTheta:   0.3,
		UThetaV:  0.13,
		TauVPlus: 1.45,
		TauS1:    2.7342,
		KS:       2.0994,
		US:       0.9087,
	}
}

// EpiParams is the epicardial parameter set.
func EpiParams() MinimalParams {
	p := shared()
	p.UU, p.UThetaW, p.UThetaO = 1.55, 0.006, 0.006
	p.TauV1Minus, p.TauV2Minus = 60, 1150
	p.TauW1Minus, p.TauW2Minus, p.KWMinus, p.UWMinus = 60, 15, 65, 0.03
	p.TauWPlus, p.TauFi, p.TauO1, p.TauO2 = 200, 0.11, 400, 6
	p.TauSo1, p.TauSo2, p.KSo, p.USo = 30.02, 0.996, 2.046, 0.65
	p.TauS2, p.TauSi, p.TauWInf, p.WInfStar = 16, 1.8875, 0.07, 0.94
	return p
}

// EndoParams is the endocardial parameter set.
func EndoParams() MinimalParams {
	p := shared()
	p.UU, p.UThetaW, p.UThetaO = 1.56, 0.024, 0.006
	p.TauV1Minus, p.TauV2Minus = 75, 10
	p.TauW1Minus, p.TauW2Minus, p.KWMinus, p.UWMinus = 6, 140, 200, 0.016
	p.TauWPlus, p.TauFi, p.TauO1, p.TauO2 = 280, 0.104, 470, 6
	p.TauSo1, p.TauSo2, p.KSo, p.USo = 40, 1.2, 2, 0.65
	p.TauS2, p.TauSi, p.TauWInf, p.WInfStar = 2, 2.9013, 0.0273, 0.78
	return p
}

// MParams is the midmyocardial parameter set.
func MParams() MinimalParams {
	p := shared()
	p.UU, p.UThetaW, p.UThetaO = 1.61, 0.1, 0.005
	p.TauV1Minus, p.TauV2Minus = 80, 1.45
	p.TauW1Minus, p.TauW2Minus, p.KWMinus, p.UWMinus = 70, 8, 200, 0.016
	p.TauWPlus, p.TauFi, p.TauO1, p.TauO2 = 280, 0.078, 410, 7
	p.TauSo1, p.TauSo2, p.KSo, p.USo = 91, 0.8, 2.1, 0.6
	p.TauS2, p.TauSi, p.TauWInf, p.WInfStar = 4, 3.3849, 0.01, 0.5
	return p
}

// MinimalModel is the four-variable minimal ventricular model.
type MinimalModel struct {
	kinetics
	forcing
	P MinimalParams
}

func NewMinimalModel(name string, p MinimalParams, du, dv, dw, ds float64) *MinimalModel {
	return &MinimalModel{
		kinetics: kinetics{name: name, diff: []float64{du, dv, dw, ds}},
		P:        p,
	}
}

func NewMinimalEpi(du, dv, dw, ds float64) *MinimalModel {
	return NewMinimalModel("mm_epi", EpiParams(), du, dv, dw, ds)
}

func NewMinimalEndo(du, dv, dw, ds float64) *MinimalModel {
	return NewMinimalModel("mm_endo", EndoParams(), du, dv, dw, ds)
}

func NewMinimalM(du, dv, dw, ds float64) *MinimalModel {
	return NewMinimalModel("mm_m", MParams(), du, dv, dw, ds)
}

func (m *MinimalModel) Reaction(sl *rd.Slice, x, y int, dst []float64) {
	p := &m.P
	u, v, w, s := sl.At(0, x, y), sl.At(1, x, y), sl.At(2, x, y), sl.At(3, x, y)

	hm := heaviside(u-p.UTheta, true)
	hp := heaviside(u-p.UThetaV, true)
	hq := heaviside(u-p.UThetaW, true)
	hr := heaviside(u-p.UThetaO, true)
	vInf := 1 - hq

	iFi := -v * hm * (u - p.UTheta) * (p.UU - u) / p.TauFi
	iSo := u*(1-hp)/((1-hr)*p.TauO1+hr*p.TauO2) +
		hp/(p.TauSo1+(p.TauSo2-p.TauSo1)*(1+math.Tanh(p.KSo*(u-p.USo)))/2)
	iSi := -hp * w * s / p.TauSi

	tauWMinus := p.TauW1Minus + (p.TauW2Minus-p.TauW1Minus)*(1+math.Tanh(p.KWMinus*(u-p.UWMinus)))/2
	wInf := (1-hr)*(1-u/p.TauWInf) + hr*p.WInfStar

	dst[0] = -(iFi + iSo + iSi - m.current)
	dst[1] = (1-hm)*(vInf-v)/((1-hq)*p.TauV1Minus+hq*p.TauV2Minus) - hm*v/p.TauVPlus
	dst[2] = (1-hp)*(wInf-w)/tauWMinus - hp*w/p.TauWPlus
	dst[3] = ((1+math.Tanh(p.KS*(u-p.US)))/2-s)/((1-hp)*p.TauS1+hp*p.TauS2)
}

func (m *MinimalModel) DefaultState() []float64 {
	return []float64{0, 1, 1, 0.02155304308028087}
}

func (m *MinimalModel) params() params {
	p := &m.P
	return params{
		"uu": &p.UU, "uTheta": &p.UTheta, "uThetaV": &p.UThetaV, "uThetaW": &p.UThetaW, "uThetaO": &p.UThetaO,
		"tauV1Minus": &p.TauV1Minus, "tauV2Minus": &p.TauV2Minus, "tauVPlus": &p.TauVPlus,
		"tauW1Minus": &p.TauW1Minus, "tauW2Minus": &p.TauW2Minus, "kWMinus": &p.KWMinus, "uWMinus": &p.UWMinus,
		"tauWPlus": &p.TauWPlus, "tauFi": &p.TauFi, "tauO1": &p.TauO1, "tauO2": &p.TauO2,
		"tauSo1": &p.TauSo1, "tauSo2": &p.TauSo2, "kSo": &p.KSo, "uSo": &p.USo,
		"tauS1": &p.TauS1, "tauS2": &p.TauS2, "kS": &p.KS, "uS": &p.US,
		"tauSi": &p.TauSi, "tauWInf": &p.TauWInf, "wInfStar": &p.WInfStar,
	}
}

func (m *MinimalModel) GetParams() map[string]float64 { return m.params().values() }
func (m *MinimalModel) SetParam(n string, v float64) error {
	return m.params().set(m.name, n, v)
}
