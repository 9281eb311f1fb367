package core

import "math"

// Clamp limits value to the inclusive range spanned by lo and hi, in either
// order. NaN passes through.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(value, lo), hi)
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// WrapIndex maps i into [0, n) with Euclidean modulo. n must be positive.
func WrapIndex(i, n int) int {
	if i %= n; i < 0 {
		i += n
	}
	return i
}

// FloorSamples converts a duration to whole samples, rounding down.
// Negative, NaN and sub-sample durations give 0.
func FloorSamples(seconds, sampleRate float64) int {
	x := math.Floor(seconds * sampleRate)
	if !(x > 0) {
		return 0
	}
	if x >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(x)
}

// DBToLinear converts decibels to an amplitude factor (20*log10).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude factor to decibels (20*log10).
// Zero maps to -Inf and negative amplitudes to NaN.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}
