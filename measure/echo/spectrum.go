package echo

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// CombSpectrum returns the power spectrum |X[k]|^2 of ir for bins
// 0..fftSize/2. The response is zero-padded to the next power of two that
// holds it; fftSize is returned alongside.
func CombSpectrum(ir []float64) (power []float64, fftSize int, err error) {
	if len(ir) == 0 {
		return nil, 0, ErrEmptyResponse
	}

	fftSize = nextPowerOf2(len(ir))

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("echo: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, fmt.Errorf("echo: forward fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power = make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, fftSize, nil
}

// BinFrequency returns the center frequency in Hz of bin k.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(fftSize)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
