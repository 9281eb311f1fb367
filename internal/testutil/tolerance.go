package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// MaxAbsDiff returns the largest absolute sample difference between a and b
// and the index where it first occurs. NaN on either side counts as an
// infinite difference.
func MaxAbsDiff(a, b []float64) (diff float64, at int, err error) {
	if len(a) != len(b) {
		return 0, -1, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	at = -1
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		if d > diff {
			diff, at = d, i
		}
	}
	return diff, at, nil
}

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and no sample pair differs by more than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	diff, at, err := MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if diff > eps {
		t.Fatalf("sample %d: got %v, want %v (diff %v > %v)", at, got[at], want[at], diff, eps)
	}
}

// RequireFinite fails t at the first NaN or infinite sample.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if !core.IsFinite(v) {
			t.Fatalf("sample %d is not finite: %v", i, v)
		}
	}
}
