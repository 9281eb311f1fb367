package echo

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Errors returned by the analyzer.
var (
	ErrEmptyResponse     = errors.New("echo: impulse response is empty")
	ErrInvalidSampleRate = errors.New("echo: sample rate must be positive")
)

// DefaultThresholdDB is the tap detection threshold relative to the
// strongest tap.
const DefaultThresholdDB = -30.0

// Tap is one detected echo.
type Tap struct {
	Index     int     // sample index
	Time      float64 // seconds
	Amplitude float64 // signed sample value
}

// Metrics holds echo analysis results.
type Metrics struct {
	Taps             []Tap   // all detected taps, including a direct tap at sample 0
	PeakIndex        int     // sample index of the absolute maximum
	FirstEchoSamples int     // index of the first tap after sample 0, -1 if none
	FirstEcho        float64 // FirstEchoSamples in seconds
	Spacing          float64 // mean echo spacing in seconds
	DecayRatio       float64 // mean |a[k+1]/a[k]| over consecutive echoes
	RT60             float64 // seconds, +Inf for a non-decaying train, 0 if unknown
	Energy           float64 // sum of squares
}

// Analyzer finds echo taps in impulse responses.
type Analyzer struct {
	SampleRate  float64
	ThresholdDB float64
}

// NewAnalyzer creates an analyzer with [DefaultThresholdDB].
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, ThresholdDB: DefaultThresholdDB}
}

// Analyze computes echo metrics of the response to a unit impulse at
// sample 0.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyResponse
	}

	if !(a.SampleRate > 0) || math.IsInf(a.SampleRate, 0) {
		return Metrics{}, ErrInvalidSampleRate
	}

	mag := make([]float64, len(ir))
	for i, v := range ir {
		mag[i] = math.Abs(v)
	}

	m := Metrics{
		PeakIndex:        floats.MaxIdx(mag),
		FirstEchoSamples: -1,
		Energy:           floats.Dot(ir, ir),
	}

	m.Taps = a.findTaps(ir, mag, mag[m.PeakIndex])

	echoes := m.Taps
	if len(echoes) > 0 && echoes[0].Index == 0 {
		echoes = echoes[1:]
	}
	if len(echoes) == 0 {
		return m, nil
	}

	m.FirstEchoSamples = echoes[0].Index
	m.FirstEcho = echoes[0].Time

	if len(echoes) < 2 {
		return m, nil
	}

	m.Spacing = (echoes[len(echoes)-1].Time - echoes[0].Time) / float64(len(echoes)-1)
	m.DecayRatio = decayRatio(echoes)
	m.RT60 = rt60(m.Spacing, m.DecayRatio)

	return m, nil
}

// findTaps returns local magnitude maxima at or above the threshold.
func (a *Analyzer) findTaps(ir, mag []float64, peak float64) []Tap {
	if peak == 0 {
		return nil
	}

	threshold := peak * core.DBToLinear(-math.Abs(a.ThresholdDB))

	var taps []Tap
	for i, v := range mag {
		if v < threshold {
			continue
		}
		if i > 0 && mag[i-1] > v {
			continue
		}
		if i+1 < len(mag) && mag[i+1] >= v {
			continue
		}
		taps = append(taps, Tap{
			Index:     i,
			Time:      float64(i) / a.SampleRate,
			Amplitude: ir[i],
		})
	}

	return taps
}

// decayRatio returns the geometric mean of the magnitude ratios of
// consecutive echoes.
func decayRatio(echoes []Tap) float64 {
	first := math.Abs(echoes[0].Amplitude)
	last := math.Abs(echoes[len(echoes)-1].Amplitude)
	if first == 0 {
		return 0
	}

	return math.Pow(last/first, 1/float64(len(echoes)-1))
}

// rt60 extrapolates the time for a geometric echo train to decay by 60 dB.
func rt60(spacing, ratio float64) float64 {
	switch {
	case spacing <= 0 || ratio <= 0:
		return 0
	case ratio >= 1:
		return math.Inf(1)
	}

	perEchoDB := core.LinearToDB(ratio)

	return spacing * -60 / perEchoDB
}
