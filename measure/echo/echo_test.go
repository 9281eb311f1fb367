package echo

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/internal/testutil"
)

// renderResponse renders the left-channel impulse response of the delay.
func renderResponse(t *testing.T, sampleRate float64, p effects.Params, length int) []float64 {
	t.Helper()
	d, err := effects.NewDelay(core.WithSampleRate(sampleRate))
	if err != nil {
		t.Fatal(err)
	}
	left, right := testutil.Stereo(testutil.Impulse(length, 0))
	d.ProcessBlock(left, right, effects.ConstantFeed(p))
	return left
}

func TestAnalyzeEchoTrain(t *testing.T) {
	const sr = 1000.0
	ir := testutil.EchoTrain(1000, 100, 0.5, 0.5)

	m, err := NewAnalyzer(sr).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	// 0.5^k stays above -30 dB for k <= 4.
	if len(m.Taps) != 6 {
		t.Fatalf("len(Taps) = %d, want 6: %+v", len(m.Taps), m.Taps)
	}
	if m.Taps[0].Index != 0 || m.Taps[0].Amplitude != 0.5 {
		t.Fatalf("direct tap = %+v", m.Taps[0])
	}
	if m.FirstEchoSamples != 100 || math.Abs(m.FirstEcho-0.1) > 1e-12 {
		t.Fatalf("FirstEcho = %d / %v, want 100 / 0.1", m.FirstEchoSamples, m.FirstEcho)
	}
	if math.Abs(m.Spacing-0.1) > 1e-12 {
		t.Fatalf("Spacing = %v, want 0.1", m.Spacing)
	}
	if math.Abs(m.DecayRatio-0.5) > 1e-12 {
		t.Fatalf("DecayRatio = %v, want 0.5", m.DecayRatio)
	}
	wantRT := 0.1 * 60 / (20 * math.Log10(2))
	if math.Abs(m.RT60-wantRT) > 1e-9 {
		t.Fatalf("RT60 = %v, want %v", m.RT60, wantRT)
	}
	if m.PeakIndex != 100 {
		t.Fatalf("PeakIndex = %d, want 100", m.PeakIndex)
	}
}

func TestAnalyzeThreshold(t *testing.T) {
	ir := testutil.EchoTrain(1000, 100, 0, 0.5)

	a := NewAnalyzer(1000)
	a.ThresholdDB = -7 // keeps 1 and 0.5
	m, err := a.Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Taps) != 2 {
		t.Fatalf("len(Taps) = %d, want 2", len(m.Taps))
	}
}

func TestAnalyzeSustainedTrain(t *testing.T) {
	m, err := NewAnalyzer(1000).Analyze(testutil.EchoTrain(500, 50, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(m.RT60, 1) {
		t.Fatalf("RT60 = %v, want +Inf", m.RT60)
	}
}

func TestAnalyzeSilenceAndSingleEcho(t *testing.T) {
	m, err := NewAnalyzer(1000).Analyze(make([]float64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Taps) != 0 || m.FirstEchoSamples != -1 {
		t.Fatalf("silence: %+v", m)
	}

	m, err = NewAnalyzer(1000).Analyze(testutil.Impulse(64, 10))
	if err != nil {
		t.Fatal(err)
	}
	if m.FirstEchoSamples != 10 || m.Spacing != 0 || m.RT60 != 0 {
		t.Fatalf("single echo: %+v", m)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := NewAnalyzer(1000).Analyze(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
	for _, sr := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewAnalyzer(sr).Analyze([]float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("sr=%v: err = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
}

func TestAnalyzeRenderedLegacyResponse(t *testing.T) {
	const sr = 1000.0
	p := effects.Params{DelaySeconds: 0.1, Feedback: 0.6, Pitch: 1, Mix: 0.5, Mode: delay.ModeLegacy}
	ir := renderResponse(t, sr, p, 900)

	m, err := NewAnalyzer(sr).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if m.Taps[0].Index != 0 {
		t.Fatalf("expected direct tap at 0, got %+v", m.Taps[0])
	}
	// floor(d*R) - 1 samples.
	if m.FirstEchoSamples != 99 {
		t.Fatalf("FirstEchoSamples = %d, want 99", m.FirstEchoSamples)
	}
	if math.Abs(m.Spacing-0.099) > 1e-12 {
		t.Fatalf("Spacing = %v, want 0.099", m.Spacing)
	}
	if math.Abs(m.DecayRatio-p.Feedback) > 1e-9 {
		t.Fatalf("DecayRatio = %v, want %v", m.DecayRatio, p.Feedback)
	}
}

func TestAnalyzeRenderedPitchedResponse(t *testing.T) {
	const sr = 1000.0
	p := effects.Params{DelaySeconds: 0.4, Feedback: 0.5, Pitch: 2, Mix: 1, Mode: delay.ModeLegacy}
	ir := renderResponse(t, sr, p, 900)

	m, err := NewAnalyzer(sr).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}
	if m.FirstEchoSamples != 199 {
		t.Fatalf("FirstEchoSamples = %d, want 199", m.FirstEchoSamples)
	}
}

func TestCombSpectrumMatchesReference(t *testing.T) {
	ir := testutil.EchoTrain(256, 16, 1, 0.7)

	power, n, err := CombSpectrum(ir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 256 || len(power) != 129 {
		t.Fatalf("fftSize = %d, bins = %d, want 256, 129", n, len(power))
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, ir)
	for k, c := range coeffs {
		want := cmplx.Abs(c) * cmplx.Abs(c)
		if math.Abs(power[k]-want) > 1e-9*math.Max(1, want) {
			t.Fatalf("bin %d: power = %v, want %v", k, power[k], want)
		}
	}
}

func TestCombSpectrumPeaks(t *testing.T) {
	// Comb with 16-sample spacing peaks every 256/16 = 16 bins.
	ir := testutil.EchoTrain(256, 16, 1, 0.7)
	power, n, err := CombSpectrum(ir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 256 {
		t.Fatalf("fftSize = %d, want 256", n)
	}

	if power[16] <= power[8] || power[32] <= power[24] {
		t.Fatalf("expected comb peaks at multiples of 16 bins")
	}
	if got := BinFrequency(16, n, 1000); math.Abs(got-62.5) > 1e-12 {
		t.Fatalf("BinFrequency = %v, want 62.5", got)
	}
}

func TestCombSpectrumPadding(t *testing.T) {
	power, n, err := CombSpectrum(make([]float64, 100))
	if err != nil {
		t.Fatal(err)
	}
	if n != 128 || len(power) != 65 {
		t.Fatalf("fftSize = %d, bins = %d, want 128, 65", n, len(power))
	}

	if _, _, err := CombSpectrum(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	ir := testutil.EchoTrain(48000, 4800, 1, 0.5)
	a := NewAnalyzer(48000)
	b.ReportAllocs()
	for range b.N {
		if _, err := a.Analyze(ir); err != nil {
			b.Fatal(err)
		}
	}
}
