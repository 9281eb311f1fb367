package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

// ReadWAV decodes a PCM WAV stream.
func ReadWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("audiofile: seek to PCM data: %w", err)
	}

	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}
	if format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, format.NumChannels)
	}

	bytesPerSample := (bitDepth-1)/8 + 1
	nsamples := int(dec.PCMLen()) / bytesPerSample
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, nsamples),
		SourceBitDepth: bitDepth,
	}
	n, err := dec.PCMBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode PCM: %w", err)
	}

	nch := format.NumChannels
	frames := n / nch
	a := newAudio(format.SampleRate, bitDepth, nch, frames)
	deinterleaveInts(buf.Data[:frames*nch], a.Channels, 1/maxVal)

	return a, nil
}

// WriteWAV encodes a as PCM WAV. Samples are clamped to [-1, 1].
func WriteWAV(w io.WriteSeeker, a *Audio, bitDepth int) error {
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return err
	}
	nch := len(a.Channels)
	if nch == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidFile)
	}
	frames := a.Frames()
	for _, c := range a.Channels {
		if len(c) != frames {
			return ErrChannelMismatch
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nch,
			SampleRate:  a.SampleRate,
		},
		Data:           make([]int, frames*nch),
		SourceBitDepth: bitDepth,
	}
	interleave(a.Channels, buf.Data, maxVal)

	enc := wav.NewEncoder(w, a.SampleRate, bitDepth, nch, pcmFormat)
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("audiofile: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalize: %w", err)
	}
	return nil
}

// fullScale returns the largest positive sample value for bitDepth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Exp2(float64(bitDepth-1)) - 1, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

func interleave(channels [][]float64, dst []int, maxVal float64) {
	nch := len(channels)
	for ch, c := range channels {
		for i, x := range c {
			if math.IsNaN(x) {
				x = 0
			}
			x = math.Max(-1, math.Min(1, x))
			dst[i*nch+ch] = int(math.Round(x * maxVal))
		}
	}
}
