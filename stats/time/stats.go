package time

import (
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// ClipLevel is the absolute amplitude at and above which a sample counts as
// clipped when written to fixed-point PCM.
const ClipLevel = 1.0

// Stats holds time-domain level statistics of a rendered signal.
//
// Non-finite samples are counted in NonFinite and excluded from every other
// field.
//
//nolint:revive
type Stats struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	RMS_dB      float64
	Peak        float64 // max |x|
	Peak_dB     float64
	PeakPos     int
	CrestFactor float64 // peak / RMS (linear)
	Energy      float64 // sum of squares
	Clipped     int
	NonFinite   int
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	var s StreamingStats
	s.Update(signal)
	return s.Result()
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// TailLength returns the number of leading samples up to and including the
// last sample whose magnitude lies within floorDB of the peak. It returns 0
// for silent input.
func TailLength(signal []float64, floorDB float64) int {
	peak := Peak(signal)
	if peak == 0 {
		return 0
	}

	threshold := peak * core.DBToLinear(-math.Abs(floorDB))
	for i := len(signal) - 1; i >= 0; i-- {
		if math.Abs(signal[i]) >= threshold {
			return i + 1
		}
	}

	return 0
}

// StreamingStats accumulates statistics across consecutive blocks. It
// processes each sample individually so results match [Calculate] on the
// concatenated input.
type StreamingStats struct {
	n         int
	finite    int
	sum       float64
	sumSq     float64
	peak      float64
	peakPos   int
	clipped   int
	nonFinite int
}

// NewStreamingStats creates a new StreamingStats accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update adds a block of samples to the running statistics.
func (s *StreamingStats) Update(samples []float64) {
	for _, x := range samples {
		pos := s.n
		s.n++

		if !core.IsFinite(x) {
			s.nonFinite++
			continue
		}
		s.finite++

		s.sum += x
		s.sumSq += x * x

		a := math.Abs(x)
		if a > s.peak {
			s.peak = a
			s.peakPos = pos
		}
		if a >= ClipLevel {
			s.clipped++
		}
	}
}

// Result computes the final statistics from accumulated data.
func (s *StreamingStats) Result() Stats {
	st := Stats{
		Length:    s.n,
		RMS_dB:    math.Inf(-1),
		Peak_dB:   math.Inf(-1),
		NonFinite: s.nonFinite,
		Clipped:   s.clipped,
	}
	if s.finite == 0 {
		return st
	}

	nf := float64(s.finite)
	st.DC = s.sum / nf
	st.RMS = math.Sqrt(s.sumSq / nf)
	st.RMS_dB = core.LinearToDB(st.RMS)
	st.Peak = s.peak
	st.Peak_dB = core.LinearToDB(s.peak)
	st.PeakPos = s.peakPos
	st.Energy = s.sumSq
	if st.RMS > 0 {
		st.CrestFactor = st.Peak / st.RMS
	}

	return st
}

// Reset clears all accumulated data, allowing the StreamingStats to be reused.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}
