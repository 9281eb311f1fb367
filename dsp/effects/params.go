package effects

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
)

// Parameter ranges.
const (
	MinDelaySeconds = 0.01
	MaxDelaySeconds = 2.0
	MinPitch        = 1.0
	MaxPitch        = 13.0
)

// Params holds the control values for one sample.
type Params struct {
	// DelaySeconds is the nominal delay time in seconds.
	DelaySeconds float64
	// Feedback is the fraction of the wet signal written back, in [0, 1].
	Feedback float64
	// Pitch divides the delay time. Values above 1 shorten the effective delay.
	Pitch float64
	// Mix is the wet amount in [0, 1].
	Mix float64
	// Freeze recirculates the line content and excludes the dry input.
	Freeze bool
	// Mode selects the read/advance policy.
	Mode delay.Mode
}

// DefaultParams returns the initial control values of the effect.
func DefaultParams() Params {
	return Params{
		DelaySeconds: 0.2,
		Feedback:     0.2,
		Pitch:        1.0,
		Mix:          0.5,
		Mode:         delay.ModeInterpolated,
	}
}

// EffectiveDelay returns DelaySeconds / Pitch.
func (p Params) EffectiveDelay() float64 {
	return p.DelaySeconds / p.Pitch
}

// Validate reports the first parameter outside its range.
func (p Params) Validate() error {
	if !core.IsFinite(p.DelaySeconds) || p.DelaySeconds < MinDelaySeconds || p.DelaySeconds > MaxDelaySeconds {
		return fmt.Errorf("delay time must be in [%g, %g]: %g", MinDelaySeconds, MaxDelaySeconds, p.DelaySeconds)
	}
	if !core.IsFinite(p.Feedback) || p.Feedback < 0 || p.Feedback > 1 {
		return fmt.Errorf("feedback must be in [0, 1]: %g", p.Feedback)
	}
	if !core.IsFinite(p.Pitch) || p.Pitch < MinPitch || p.Pitch > MaxPitch {
		return fmt.Errorf("pitch must be in [%g, %g]: %g", MinPitch, MaxPitch, p.Pitch)
	}
	if !core.IsFinite(p.Mix) || p.Mix < 0 || p.Mix > 1 {
		return fmt.Errorf("mix must be in [0, 1]: %g", p.Mix)
	}
	if _, err := p.Mode.MarshalText(); err != nil {
		return err
	}
	return nil
}

// Clamped returns p with every numeric value limited to its range.
// An unknown mode is replaced by [delay.ModeInterpolated].
func (p Params) Clamped() Params {
	p.DelaySeconds = core.Clamp(p.DelaySeconds, MinDelaySeconds, MaxDelaySeconds)
	p.Feedback = core.Clamp(p.Feedback, 0, 1)
	p.Pitch = core.Clamp(p.Pitch, MinPitch, MaxPitch)
	p.Mix = core.Clamp(p.Mix, 0, 1)
	if _, err := p.Mode.MarshalText(); err != nil {
		p.Mode = delay.ModeInterpolated
	}
	return p
}

// ParamFeed supplies the smoothed parameters for sample i of the current
// block. Implementations must not allocate or block.
type ParamFeed interface {
	At(i int) Params
}

// ConstantFeed is a ParamFeed that returns the same parameters for every
// sample.
type ConstantFeed Params

// At implements ParamFeed.
func (c ConstantFeed) At(int) Params { return Params(c) }
