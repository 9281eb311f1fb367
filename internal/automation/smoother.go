package automation

import "math"

// Curve selects the interpolation shape of a ramp or smoother.
type Curve int

const (
	// Linear interpolates in the value domain.
	Linear Curve = iota
	// Logarithmic interpolates in the log domain, giving a constant ratio
	// between consecutive samples.
	Logarithmic
)

// logFloor keeps logarithmic curves away from log(0).
const logFloor = 1e-6

// Smoother glides from its current value to a target over a fixed number of
// samples.
type Smoother struct {
	curve     Curve
	steps     int
	remaining int

	current float64
	target  float64
	step    float64 // per-sample increment, or log-domain increment
	logCur  float64
}

// NewSmoother returns a Smoother that reaches a new target after timeMs
// milliseconds at sampleRate. Times shorter than one sample jump
// immediately.
func NewSmoother(curve Curve, timeMs, sampleRate float64) *Smoother {
	steps := int(math.Round(timeMs * 0.001 * sampleRate))
	if steps < 1 {
		steps = 1
	}
	return &Smoother{curve: curve, steps: steps}
}

// Reset jumps to value and stops any glide.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.remaining = 0
}

// SetTarget starts a glide towards target from the current value.
func (s *Smoother) SetTarget(target float64) {
	if target == s.target && s.remaining == 0 {
		return
	}

	s.target = target
	s.remaining = s.steps

	switch s.curve {
	case Logarithmic:
		s.logCur = math.Log(math.Max(s.current, logFloor))
		s.step = (math.Log(math.Max(target, logFloor)) - s.logCur) / float64(s.steps)
	default:
		s.step = (target - s.current) / float64(s.steps)
	}
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float64 {
	if s.remaining == 0 {
		return s.current
	}

	s.remaining--
	if s.remaining == 0 {
		s.current = s.target
		return s.current
	}

	switch s.curve {
	case Logarithmic:
		s.logCur += s.step
		s.current = math.Exp(s.logCur)
	default:
		s.current += s.step
	}

	return s.current
}

// Current returns the last smoothed value without advancing.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the value the smoother is gliding to.
func (s *Smoother) Target() float64 { return s.target }

// IsSmoothing reports whether a glide is in progress.
func (s *Smoother) IsSmoothing() bool { return s.remaining > 0 }
