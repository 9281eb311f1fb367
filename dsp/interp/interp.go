package interp

// Linear2 blends a and b: (1-t)*a + t*b.
// t = 0 returns a exactly; t = 1 returns b exactly.
func Linear2(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// Slope extrapolates forward from x0 along the derivative to the previous
// sample xm1, scaled by k: x0 + k*(x0-xm1).
func Slope(k, x0, xm1 float64) float64 {
	return x0 + k*(x0-xm1)
}
