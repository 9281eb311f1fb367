package buffer

import "github.com/cwbudde/algo-delay/dsp/core"

// Ring is a fixed-length, zero-initialized circular sample store for a
// single channel.
type Ring struct {
	samples []float64
}

// NewRing returns a zero-filled Ring of the given length.
// A negative length yields an empty Ring.
func NewRing(length int) *Ring {
	if length < 0 {
		length = 0
	}
	return &Ring{samples: make([]float64, length)}
}

// Len returns the ring length in samples.
func (r *Ring) Len() int {
	return len(r.samples)
}

// At returns the sample at index i. i must be in [0, Len()).
func (r *Ring) At(i int) float64 {
	return r.samples[i]
}

// Set stores x at index i. i must be in [0, Len()).
func (r *Ring) Set(i int, x float64) {
	r.samples[i] = x
}

// Wrap maps any integer index into [0, Len()).
func (r *Ring) Wrap(i int) int {
	return core.WrapIndex(i, len(r.samples))
}

// Samples returns the underlying storage. Mutations are visible to the ring.
func (r *Ring) Samples() []float64 {
	return r.samples
}

// Zero clears every sample without reallocating.
func (r *Ring) Zero() {
	core.Zero(r.samples)
}
