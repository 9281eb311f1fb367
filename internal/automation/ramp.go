package automation

import (
	"math"

	"github.com/cwbudde/algo-delay/dsp/effects"
)

// Ramp sweeps a value from From to To over Samples samples and holds To
// afterwards.
type Ramp struct {
	From    float64
	To      float64
	Samples int
	Curve   Curve
}

// Value returns the ramp value at absolute sample position pos.
func (r Ramp) Value(pos int) float64 {
	if r.Samples <= 0 || pos >= r.Samples {
		return r.To
	}
	if pos <= 0 {
		return r.From
	}

	t := float64(pos) / float64(r.Samples)
	if r.Curve == Logarithmic {
		from := math.Log(math.Max(r.From, logFloor))
		to := math.Log(math.Max(r.To, logFloor))
		return math.Exp(from + t*(to-from))
	}

	return r.From + t*(r.To-r.From)
}

// Feed is an [effects.ParamFeed] over a whole render. Base supplies every
// parameter; a non-nil ramp overrides its parameter. Call [Feed.Advance]
// after each processed block.
type Feed struct {
	Base     effects.Params
	Delay    *Ramp
	Feedback *Ramp
	Pitch    *Ramp
	Mix      *Ramp

	offset int
}

// At implements effects.ParamFeed.
func (f *Feed) At(i int) effects.Params {
	pos := f.offset + i
	p := f.Base
	if f.Delay != nil {
		p.DelaySeconds = f.Delay.Value(pos)
	}
	if f.Feedback != nil {
		p.Feedback = f.Feedback.Value(pos)
	}
	if f.Pitch != nil {
		p.Pitch = f.Pitch.Value(pos)
	}
	if f.Mix != nil {
		p.Mix = f.Mix.Value(pos)
	}
	return p
}

// Advance moves the feed n samples forward.
func (f *Feed) Advance(n int) { f.offset += n }

// Position returns the absolute sample position of At(0).
func (f *Feed) Position() int { return f.offset }
