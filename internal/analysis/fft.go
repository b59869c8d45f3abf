package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data,
// with the mean removed first. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spec := fft.FFTReal(centred)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-zero bin of
// a trace sampled every dt, or 0 when the trace is flat.
func DominantFrequency(trace []float64, dt float64) float64 {
	ps := PowerSpectrum(trace)
	best, bin := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bin = ps[i], i
		}
	}
	if bin == 0 || dt <= 0 {
		return 0
	}
	return float64(bin) / (float64(len(trace)) * dt)
}
