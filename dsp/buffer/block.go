package buffer

import "github.com/cwbudde/algo-delay/dsp/core"

// Block is a planar multi-channel block of samples.
type Block struct {
	channels [][]float64
}

// NewBlock returns a zero-filled Block with the given channel and frame count.
func NewBlock(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)
	return b
}

// Channels returns the number of channels.
func (b *Block) Channels() int {
	return len(b.channels)
}

// Frames returns the number of frames per channel.
func (b *Block) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// Resize sets the shape of the block, reusing existing capacity when
// possible. Newly exposed samples are zeroed.
func (b *Block) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	if cap(b.channels) >= channels {
		b.channels = b.channels[:channels]
	} else {
		grown := make([][]float64, channels)
		copy(grown, b.channels)
		b.channels = grown
	}
	for ch := range b.channels {
		oldLen := len(b.channels[ch])
		b.channels[ch] = core.EnsureLen(b.channels[ch], frames)
		if frames > oldLen {
			core.Zero(b.channels[ch][oldLen:])
		}
	}
}

// Truncate shortens every channel to frames without touching capacity.
// It is a no-op when frames is not smaller than the current frame count.
func (b *Block) Truncate(frames int) {
	if frames < 0 || frames >= b.Frames() {
		return
	}
	for ch := range b.channels {
		b.channels[ch] = b.channels[ch][:frames]
	}
}

// Zero sets all samples of all channels to 0.
func (b *Block) Zero() {
	for _, c := range b.channels {
		core.Zero(c)
	}
}
