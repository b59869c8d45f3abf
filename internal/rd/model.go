package rd

// Model supplies the reaction kinetics of a reaction-diffusion system.
//
// Reaction writes FieldCount rates for point (x, y) into dst, reading only
// from s. It must not keep state between calls; the only thing allowed to
// change between steps is an externally set stimulus (see Stimulable).
type Model interface {
	Name() string
	FieldCount() int
	DiffusionConstants() []float64
	Reaction(s *Slice, x, y int, dst []float64)
}

// Stimulable is implemented by models with an external forcing term.
type Stimulable interface {
	SetStimulus(v float64)
	Stimulus() float64
}

// Configurable exposes a model's tunable parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s *Slice, t float64)
}

// Metric accumulates a scalar over completed steps.
type Metric interface {
	Name() string
	Observe(s *Slice, t float64)
	Value() float64
	Reset()
}
