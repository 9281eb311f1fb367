package effects

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-vecmath"
)

const (
	stereoChannels = 2

	// unityGain is the output gain. The gain control is disabled; the
	// multiplication stays between the blend and the final output.
	unityGain = 1.0
)

// Delay is a stereo feedback delay with selectable read/advance modes,
// freeze and pitch-scaled delay time.
type Delay struct {
	line delay.Line
	gain float64
	wet  [stereoChannels]float64
}

// NewDelay creates a stereo delay configured from opts. The channel count in
// opts is ignored; the processor is always stereo.
func NewDelay(opts ...core.ProcessorOption) (*Delay, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	d := &Delay{gain: unityGain}
	if err := d.Configure(cfg.SampleRate); err != nil {
		return nil, err
	}
	return d, nil
}

// Configure reallocates the delay line for sampleRate and clears all state.
// It must not be called concurrently with processing.
func (d *Delay) Configure(sampleRate float64) error {
	if err := d.line.Configure(stereoChannels, sampleRate); err != nil {
		return fmt.Errorf("effects: configure delay: %w", err)
	}
	return nil
}

// Reset clears the line content and indices without reallocating.
func (d *Delay) Reset() {
	d.line.Reset()
	d.wet = [stereoChannels]float64{}
}

// SampleRate returns the configured sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.line.SampleRate() }

// Line exposes the underlying delay line for inspection.
func (d *Delay) Line() *delay.Line { return &d.line }

// TailSamples returns how many samples an echo can remain readable after
// the input stops: the read and default write steps wrap against
// floor(sampleRate), so this is one second of audio.
func (d *Delay) TailSamples() int {
	return d.line.Capacity() / delay.MaxDelaySeconds
}

// ProcessFrame processes one stereo sample with the parameters p and returns
// the output frame.
func (d *Delay) ProcessFrame(p Params, left, right float64) (float64, float64) {
	outL, outR := d.blend(p, left, right)
	return outL * d.gain, outR * d.gain
}

// ProcessBlock processes left and right in place. feed.At(i) supplies the
// parameters of sample i. Only the first min(len(left), len(right)) samples
// are processed.
func (d *Delay) ProcessBlock(left, right []float64, feed ParamFeed) {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]

	for i := range left {
		left[i], right[i] = d.blend(feed.At(i), left[i], right[i])
	}

	vecmath.ScaleBlock(left, left, d.gain)
	vecmath.ScaleBlock(right, right, d.gain)
}

// blend runs read, blend, write and advance for one frame and returns the
// output before the gain stage.
func (d *Delay) blend(p Params, left, right float64) (float64, float64) {
	effective := p.EffectiveDelay()
	s := p.Mode.Strategy()
	wet := d.wet[:]

	s.Read(&d.line, effective, wet)

	var outL, outR, inL, inR float64
	if p.Freeze {
		outL = p.Mix * wet[0]
		outR = p.Mix * wet[1]
		inL, inR = wet[0], wet[1]
	} else {
		outL = (1-p.Mix)*left + p.Mix*wet[0]
		outR = (1-p.Mix)*right + p.Mix*wet[1]
		inL = left + wet[0]*p.Feedback
		inR = right + wet[1]*p.Feedback
	}

	d.line.Write(0, inL)
	d.line.Write(1, inR)
	s.Advance(&d.line, effective)

	return outL, outR
}
