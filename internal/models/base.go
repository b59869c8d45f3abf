package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/rdsim/internal/rd"
)

var ErrUnknownParam = errors.New("models: unknown parameter")

// Model is a reaction model that also knows its resting state.
type Model interface {
	rd.Model
	rd.Configurable
	DefaultState() []float64
}

type kinetics struct {
	name string
	diff []float64
}

func (k *kinetics) Name() string                  { return k.name }
func (k *kinetics) FieldCount() int               { return len(k.diff) }
func (k *kinetics) DiffusionConstants() []float64 { return k.diff }

// forcing is the external current I_ext.
type forcing struct{ current float64 }

func (f *forcing) SetStimulus(v float64) { f.current = v }
func (f *forcing) Stimulus() float64     { return f.current }

type params map[string]*float64

func (p params) values() map[string]float64 {
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = *v
	}
	return out
}

func (p params) set(model, name string, v float64) error {
	ptr, ok := p[name]
	if !ok {
		return fmt.Errorf("%w: %s has no %q (have %v)", ErrUnknownParam, model, name, p.names())
	}
	*ptr = v
	return nil
}

func (p params) names() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// heaviside is 1 above zero, and at zero too when inclusive is set.
func heaviside(x float64, inclusive bool) float64 {
	if x > 0 || (inclusive && x == 0) {
		return 1
	}
	return 0
}
