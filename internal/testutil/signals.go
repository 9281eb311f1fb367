package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of a sine at freqHz starting at phase zero.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// Noise returns n samples of uniform white noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func Noise(seed uint64, amplitude float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns n samples that are zero except for a one at pos.
// An out-of-range pos yields silence.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// Stereo returns two independent copies of mono for in-place processing.
func Stereo(mono []float64) (left, right []float64) {
	return append([]float64(nil), mono...), append([]float64(nil), mono...)
}

// EchoTrain returns an ideal comb response: direct at sample 0, then echoes
// every spacing samples starting at amplitude 1, each scaled by ratio.
func EchoTrain(n, spacing int, direct, ratio float64) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = direct
	amp := 1.0
	for i := spacing; spacing > 0 && i < n; i += spacing {
		out[i] = amp
		amp *= ratio
	}
	return out
}
