package playback

import (
	"sync"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
	"github.com/cwbudde/algo-delay/internal/automation"
)

// SampleSource fills dst with interleaved stereo float32 samples.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can signal when playback has ended.
// When Finished returns true, the stream will return io.EOF on the next Read.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// DelaySource streams a stereo input through an effects.Delay, followed by
// the delay tail. Parameter changes from other goroutines are smoothed the
// way a plugin host smooths knob movements.
type DelaySource struct {
	mu sync.Mutex

	delay *effects.Delay
	feed  *automation.SmoothedFeed

	inL, inR []float64
	pos      int
	end      int // input length plus tail

	left, right []float64
}

// NewDelaySource plays left and right (mono input may pass the same slice
// twice) through d, starting with parameters p. maxBlock bounds the frames
// processed per call; larger requests are split.
func NewDelaySource(d *effects.Delay, left, right []float64, p effects.Params, maxBlock int) *DelaySource {
	if maxBlock < 1 {
		maxBlock = 1
	}
	n := min(len(left), len(right))
	return &DelaySource{
		delay: d,
		feed:  automation.NewSmoothedFeed(p, d.SampleRate(), maxBlock),
		inL:   left[:n],
		inR:   right[:n],
		end:   n + d.TailSamples(),
		left:  make([]float64, maxBlock),
		right: make([]float64, maxBlock),
	}
}

// SetParams changes the target parameters.
func (s *DelaySource) SetParams(p effects.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed.SetTarget(p)
}

// Params returns the current target parameters.
func (s *DelaySource) Params() effects.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Target()
}

// Position returns the number of frames produced so far.
func (s *DelaySource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Process implements SampleSource.
func (s *DelaySource) Process(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(dst) / 2
	for done := 0; done < frames; {
		n := min(frames-done, len(s.left))
		left, right := s.left[:n], s.right[:n]
		s.fill(left, right)

		s.feed.Prepare(n)
		s.delay.ProcessBlock(left, right, s.feed)

		core.InterleaveStereo(dst[done*2:], left, right)
		done += n
	}
}

// Finished implements FinishingSource.
func (s *DelaySource) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos >= s.end
}

// fill copies the next input frames into left and right, padding with
// silence past the end of the input.
func (s *DelaySource) fill(left, right []float64) {
	for i := range left {
		if s.pos < len(s.inL) {
			left[i] = s.inL[s.pos]
			right[i] = s.inR[s.pos]
		} else {
			left[i], right[i] = 0, 0
		}
		s.pos++
	}
}
