package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/interp"
)

// MaxDelaySeconds is the per-channel storage length in seconds.
const MaxDelaySeconds = 2

// slopeAmount scales the derivative term of ReadInterpolated.
const slopeAmount = 0.02

// Configuration errors returned by [Line.Configure].
var (
	ErrInvalidChannels   = errors.New("delay: channel count must be >= 1")
	ErrInvalidSampleRate = errors.New("delay: sample rate must be finite and >= 1")
)

// Line is a multi-channel circular delay line with one read index and one
// write index shared by all channels.
//
// The zero value is unconfigured; call [Line.Configure] before use.
type Line struct {
	sampleRate float64
	rateMod    int // floor(sampleRate)
	capacity   int
	rings      []*buffer.Ring

	rp int
	wp int
}

// New returns a Line configured for the given channel count and sample rate.
func New(channels int, sampleRate float64) (*Line, error) {
	l := &Line{}
	if err := l.Configure(channels, sampleRate); err != nil {
		return nil, err
	}
	return l, nil
}

// Configure (re)allocates one zeroed ring of floor(sampleRate)*MaxDelaySeconds
// samples per channel and resets both indices to zero.
//
// Configure is not real-time safe and must not run concurrently with any
// other method. On error the Line is left unconfigured and must be
// configured again before processing.
func (l *Line) Configure(channels int, sampleRate float64) error {
	if channels < 1 {
		*l = Line{}
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if !core.IsFinite(sampleRate) || sampleRate < 1 {
		*l = Line{}
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	rateMod := int(math.Floor(sampleRate))
	capacity := rateMod * MaxDelaySeconds

	rings := make([]*buffer.Ring, channels)
	for ch := range rings {
		rings[ch] = buffer.NewRing(capacity)
	}

	*l = Line{
		sampleRate: sampleRate,
		rateMod:    rateMod,
		capacity:   capacity,
		rings:      rings,
	}
	return nil
}

// Configured reports whether the Line holds valid storage.
func (l *Line) Configured() bool {
	return l.capacity > 0
}

// Reset clears all channel content and zeroes both indices without
// reallocating.
func (l *Line) Reset() {
	for _, r := range l.rings {
		r.Zero()
	}
	l.rp = 0
	l.wp = 0
}

// Channels returns the configured channel count.
func (l *Line) Channels() int { return len(l.rings) }

// Capacity returns the per-channel ring length in samples.
func (l *Line) Capacity() int { return l.capacity }

// SampleRate returns the configured sample rate in Hz.
func (l *Line) SampleRate() float64 { return l.sampleRate }

// ReadIndex returns the shared read index.
func (l *Line) ReadIndex() int { return l.rp }

// WriteIndex returns the shared write index.
func (l *Line) WriteIndex() int { return l.wp }

// Snapshot copies the content of channel ch into dst, growing it when
// needed, and returns it. The copy is detached from the line; use it for
// inspection only.
func (l *Line) Snapshot(ch int, dst []float64) []float64 {
	dst = core.EnsureLen(dst, l.capacity)
	copy(dst, l.rings[ch].Samples())
	return dst
}

func (l *Line) channel(ch int) *buffer.Ring { return l.rings[ch] }

// Write stores sample at the write index of channel ch.
func (l *Line) Write(ch int, sample float64) {
	l.rings[ch].Set(l.wp, sample)
}

// Peek returns the sample at the read index of channel ch without moving
// any index.
func (l *Line) Peek(ch int) float64 {
	return l.rings[ch].At(l.rp)
}

// Read steps the read index by one, wrapping against floor(sampleRate), and
// stores the sample at the new read index of every channel into out.
// Channels beyond len(out) are not read.
func (l *Line) Read(out []float64) {
	l.stepRead()

	n := min(len(out), len(l.rings))
	for ch := 0; ch < n; ch++ {
		out[ch] = l.rings[ch].At(l.rp)
	}
}

// ReadInterpolated steps the read index like [Line.Read] and returns a
// slight forward extrapolation along the slope to the previous sample:
// x[rp] + 0.02*(x[rp]-x[rp-1]).
func (l *Line) ReadInterpolated(out []float64) {
	l.stepRead()

	prev := l.rp - 1
	if prev < 0 {
		prev += l.capacity
	}

	n := min(len(out), len(l.rings))
	for ch := 0; ch < n; ch++ {
		r := l.rings[ch]
		out[ch] = interp.Slope(slopeAmount, r.At(l.rp), r.At(prev))
	}
}

// ReadLinear steps the read index like [Line.Read] and blends the sample
// after the read index with the sample at it, weighted by the fractional
// part of delaySeconds*sampleRate: (1-frac)*x[rp+1] + frac*x[rp].
func (l *Line) ReadLinear(out []float64, delaySeconds float64) {
	l.stepRead()

	fracDelay := math.Mod(delaySeconds*l.sampleRate, float64(l.capacity))
	frac := math.Mod(fracDelay, 1)
	if frac < 0 {
		frac++
	}

	next := l.rp + 1
	if next >= l.capacity {
		next = 0
	}

	n := min(len(out), len(l.rings))
	for ch := 0; ch < n; ch++ {
		r := l.rings[ch]
		out[ch] = interp.Linear2(frac, r.At(next), r.At(l.rp))
	}
}

// AdvanceDefault steps the write index by one, wrapping against
// floor(sampleRate), then slaves the read index to it:
// rp = (wp - floor(delaySeconds*sampleRate)) mod capacity.
//
// Recomputing rp from wp every sample keeps delay-time changes smooth
// instead of letting the reader drift on its own.
func (l *Line) AdvanceDefault(delaySeconds float64) {
	l.wp = (l.wp + 1) % l.rateMod
	l.rp = core.WrapIndex(l.wp-l.delaySamples(delaySeconds), l.capacity)
}

// AdvanceDigital cycles the write index through the first
// floor(delaySeconds*sampleRate) slots (at least one, at most capacity) and
// moves the read index onto it. The loop length is quantized to whole
// samples, which gives the Digital mode its stepped response to delay-time
// changes.
func (l *Line) AdvanceDigital(delaySeconds float64) {
	loop := max(1, l.delaySamples(delaySeconds))
	l.wp = (l.wp + 1) % loop
	l.rp = l.wp
}

func (l *Line) stepRead() {
	l.rp = (l.rp + 1) % l.rateMod
}

// delaySamples returns floor(seconds*sampleRate) limited to [0, capacity].
// NaN maps to 0.
func (l *Line) delaySamples(seconds float64) int {
	return min(core.FloorSamples(seconds, l.sampleRate), l.capacity)
}
