package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/rdsim/internal/rd"
)

const namespace = "rdsim"

// Collector exports solver progress to Prometheus. It is an rd.Observer;
// the step duration is the wall time between consecutive observations.
type Collector struct {
	steps     prometheus.Counter
	simTime   prometheus.Gauge
	fieldMass *prometheus.GaugeVec
	stepTime  prometheus.Histogram

	last time.Time
	now  func() time.Time
}

// NewCollector registers the collector's metrics on reg, labelled with the
// model name.
func NewCollector(reg prometheus.Registerer, model string) *Collector {
	labels := prometheus.Labels{"model": model}
	c := &Collector{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "solver",
			Name:        "steps_total",
			Help:        "Completed explicit Euler steps",
			ConstLabels: labels,
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "solver",
			Name:        "simulated_time",
			Help:        "Elapsed simulated time",
			ConstLabels: labels,
		}),
		fieldMass: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "grid",
			Name:        "field_total",
			Help:        "Sum of each field over the grid",
			ConstLabels: labels,
		}, []string{"field"}),
		stepTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "solver",
			Name:        "step_duration_seconds",
			Help:        "Wall time per step",
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 10),
			ConstLabels: labels,
		}),
		now: time.Now,
	}
	reg.MustRegister(c.steps, c.simTime, c.fieldMass, c.stepTime)
	return c
}

func (c *Collector) OnStep(s *rd.Slice, t float64) {
	now := c.now()
	if !c.last.IsZero() {
		c.stepTime.Observe(now.Sub(c.last).Seconds())
	}
	c.last = now

	c.steps.Inc()
	c.simTime.Set(t)
	for f := 0; f < s.Fields(); f++ {
		c.fieldMass.WithLabelValues(strconv.Itoa(f)).Set(s.Sum(f))
	}
}
