package analysis

import "github.com/san-kum/rdsim/internal/rd"

// Crossings records the times at which a field at a probe rises through a
// threshold. The time is interpolated linearly inside the step.
type Crossings struct {
	Field          int
	ProbeX, ProbeY int
	Threshold      float64
	Times          []float64

	prev, prevT float64
	primed      bool
}

func NewCrossings(field, probeX, probeY int, threshold float64) *Crossings {
	return &Crossings{Field: field, ProbeX: probeX, ProbeY: probeY, Threshold: threshold}
}

func (c *Crossings) OnStep(s *rd.Slice, t float64) {
	v := s.At(c.Field, c.ProbeX, c.ProbeY)
	if c.primed && c.prev < c.Threshold && v >= c.Threshold {
		frac := (c.Threshold - c.prev) / (v - c.prev)
		c.Times = append(c.Times, c.prevT+frac*(t-c.prevT))
	}
	c.prev, c.prevT, c.primed = v, t, true
}

// Periods returns the intervals between consecutive crossings.
func (c *Crossings) Periods() []float64 {
	if len(c.Times) < 2 {
		return nil
	}
	out := make([]float64, len(c.Times)-1)
	for i := range out {
		out[i] = c.Times[i+1] - c.Times[i]
	}
	return out
}

// MeanPeriod averages Periods, or returns 0 with fewer than two crossings.
func (c *Crossings) MeanPeriod() float64 {
	p := c.Periods()
	if len(p) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum / float64(len(p))
}
