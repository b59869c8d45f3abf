package metrics

import (
	"math"

	"github.com/san-kum/rdsim/internal/rd"
)

// Mass tracks the total of one field over the grid at the latest step.
type Mass struct {
	field int
	total float64
}

func NewMass(field int) *Mass { return &Mass{field: field} }

func (m *Mass) Name() string                   { return "mass" }
func (m *Mass) Observe(s *rd.Slice, _ float64) { m.total = s.Sum(m.field) }
func (m *Mass) Value() float64                 { return m.total }
func (m *Mass) Reset()                         { m.total = 0 }

// MassDrift is the largest deviation of a field total from its value at the
// first observed step.
type MassDrift struct {
	field    int
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift(field int) *MassDrift { return &MassDrift{field: field} }

func (m *MassDrift) Name() string { return "mass_drift" }

func (m *MassDrift) Observe(s *rd.Slice, _ float64) {
	total := s.Sum(m.field)
	if m.samples == 0 {
		m.initial = total
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(total-m.initial))
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initial, m.maxDrift, m.samples = 0, 0, 0
}

// Peak is the largest value a field reached anywhere on the grid.
type Peak struct {
	field int
	peak  float64
	seen  bool
}

func NewPeak(field int) *Peak { return &Peak{field: field} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(s *rd.Slice, _ float64) {
	for x := 0; x < s.NX(); x++ {
		for y := 0; y < s.NY(); y++ {
			if v := s.At(p.field, x, y); !p.seen || v > p.peak {
				p.peak, p.seen = v, true
			}
		}
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak, p.seen = 0, false }

// Activation is the largest fraction of grid points above threshold seen at
// any step.
type Activation struct {
	field     int
	threshold float64
	maxFrac   float64
}

func NewActivation(field int, threshold float64) *Activation {
	return &Activation{field: field, threshold: threshold}
}

func (a *Activation) Name() string { return "activation" }

func (a *Activation) Observe(s *rd.Slice, _ float64) {
	above := 0
	for x := 0; x < s.NX(); x++ {
		for y := 0; y < s.NY(); y++ {
			if s.At(a.field, x, y) > a.threshold {
				above++
			}
		}
	}
	a.maxFrac = math.Max(a.maxFrac, float64(above)/float64(s.NX()*s.NY()))
}

func (a *Activation) Value() float64 { return a.maxFrac }

func (a *Activation) Reset() { a.maxFrac = 0 }

// NonFinite counts NaN and Inf values over all fields and steps.
type NonFinite struct{ count int }

func NewNonFinite() *NonFinite { return &NonFinite{} }

func (n *NonFinite) Name() string { return "non_finite" }

func (n *NonFinite) Observe(s *rd.Slice, _ float64) {
	for f := 0; f < s.Fields(); f++ {
		for x := 0; x < s.NX(); x++ {
			for y := 0; y < s.NY(); y++ {
				if v := s.At(f, x, y); math.IsNaN(v) || math.IsInf(v, 0) {
					n.count++
				}
			}
		}
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }

func (n *NonFinite) Reset() { n.count = 0 }

// Standard returns the metrics every run records for field 0.
func Standard(threshold float64) []rd.Metric {
	return []rd.Metric{
		NewMass(0),
		NewMassDrift(0),
		NewPeak(0),
		NewActivation(0, threshold),
		NewNonFinite(),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []rd.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
