package core

// EnsureLen returns buf resliced to n samples, allocating only when buf
// cannot hold n. Reused capacity is not cleared.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case n <= cap(buf):
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// CopyPadded copies src into dst and zeroes the part of dst that src does
// not cover. It returns the number of samples copied.
func CopyPadded(dst, src []float64) int {
	n := copy(dst, src)
	clear(dst[n:])
	return n
}

// InterleaveStereo writes left and right as alternating float32 frames into
// dst. Only min(len(left), len(right), len(dst)/2) frames are written.
func InterleaveStereo(dst []float32, left, right []float64) int {
	n := min(len(left), len(right), len(dst)/2)
	for i := range n {
		dst[2*i] = float32(left[i])
		dst[2*i+1] = float32(right[i])
	}
	return n
}
