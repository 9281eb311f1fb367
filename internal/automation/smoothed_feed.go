package automation

import "github.com/cwbudde/algo-delay/dsp/effects"

// Smoothing times of the host parameters, in milliseconds.
const (
	DelaySmoothingMs = 20.0
	PitchSmoothingMs = 20.0
)

// SmoothedFeed smooths delay time and pitch logarithmically towards the
// latest target parameters. The other parameters switch immediately.
//
// Call [SmoothedFeed.Prepare] once per block before handing the feed to
// [effects.Delay.ProcessBlock].
type SmoothedFeed struct {
	target effects.Params
	delay  *Smoother
	pitch  *Smoother
	buf    []effects.Params
}

// NewSmoothedFeed starts at p and preallocates room for maxBlock samples.
func NewSmoothedFeed(p effects.Params, sampleRate float64, maxBlock int) *SmoothedFeed {
	f := &SmoothedFeed{
		target: p,
		delay:  NewSmoother(Logarithmic, DelaySmoothingMs, sampleRate),
		pitch:  NewSmoother(Logarithmic, PitchSmoothingMs, sampleRate),
		buf:    make([]effects.Params, maxBlock),
	}
	f.delay.Reset(p.DelaySeconds)
	f.pitch.Reset(p.Pitch)
	return f
}

// SetTarget makes p the new target. Delay time and pitch glide to it.
func (f *SmoothedFeed) SetTarget(p effects.Params) {
	f.target = p
	f.delay.SetTarget(p.DelaySeconds)
	f.pitch.SetTarget(p.Pitch)
}

// Target returns the latest target parameters.
func (f *SmoothedFeed) Target() effects.Params { return f.target }

// Prepare computes the parameters of the next n samples. It allocates only
// when n exceeds every previous block size.
func (f *SmoothedFeed) Prepare(n int) {
	if n > len(f.buf) {
		f.buf = make([]effects.Params, n)
	}
	for i := range n {
		p := f.target
		p.DelaySeconds = f.delay.Next()
		p.Pitch = f.pitch.Next()
		f.buf[i] = p
	}
}

// At implements effects.ParamFeed for the block set up by Prepare.
func (f *SmoothedFeed) At(i int) effects.Params { return f.buf[i] }
