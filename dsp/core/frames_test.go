package core

import "testing"

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 || cap(out) != cap(buf) {
		t.Fatalf("len/cap = %d/%d, want 6/%d", len(out), cap(out), cap(buf))
	}

	out = EnsureLen(out, 16)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}

	if got := EnsureLen(out, -1); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestCopyPadded(t *testing.T) {
	dst := []float64{9, 9, 9, 9}

	if n := CopyPadded(dst, []float64{1, 2}); n != 2 {
		t.Fatalf("copied %d, want 2", n)
	}

	want := []float64{1, 2, 0, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if n := CopyPadded(dst, nil); n != 0 || dst[0] != 0 {
		t.Fatalf("empty source: n=%d dst[0]=%v", n, dst[0])
	}
}

func TestInterleaveStereo(t *testing.T) {
	dst := make([]float32, 7)

	n := InterleaveStereo(dst, []float64{1, 2, 3, 4}, []float64{-1, -2, -3})
	if n != 3 {
		t.Fatalf("frames = %d, want 3", n)
	}

	want := []float32{1, -1, 2, -2, 3, -3, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}
