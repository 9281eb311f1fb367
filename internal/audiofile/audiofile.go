// Package audiofile decodes audio files into planar float64 channels and
// encodes rendered audio as PCM WAV.
//
// Supported inputs:
//
//   - WAV: 16, 24 and 32-bit PCM via go-audio/wav
//   - AIFF: 16, 24 and 32-bit PCM via go-audio/aiff
//   - MP3: via hajimehoshi/go-mp3 (always stereo, 16-bit)
//   - Ogg Vorbis: via jfreymuth/oggvorbis
//
// The input format is chosen by file extension.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Errors returned by the codecs.
var (
	ErrInvalidFile         = errors.New("audiofile: invalid audio file")
	ErrUnsupportedFormat   = errors.New("audiofile: unsupported file format")
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
	ErrChannelMismatch     = errors.New("audiofile: channels differ in length")
)

// Audio is decoded audio with one slice per channel, normalized to [-1, 1].
// BitDepth is the source PCM depth, or 0 for compressed input.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

// ReadFile decodes the file at path, selecting the decoder by extension.
func ReadFile(path string) (*Audio, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func(io.ReadSeeker) (*Audio, error)
	switch ext {
	case ".wav", ".wave":
		decode = ReadWAV
	case ".aif", ".aiff":
		decode = ReadAIFF
	case ".mp3":
		decode = func(r io.ReadSeeker) (*Audio, error) { return ReadMP3(r) }
	case ".ogg", ".oga":
		decode = func(r io.ReadSeeker) (*Audio, error) { return ReadVorbis(r) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open input: %w", err)
	}
	defer f.Close()

	a, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// WriteFile encodes a as PCM WAV at path with the given bit depth.
func WriteFile(path string, a *Audio, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: create output: %w", err)
	}

	if err := WriteWAV(f, a, bitDepth); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// newAudio allocates nch channels of frames samples each.
func newAudio(sampleRate, bitDepth, nch, frames int) *Audio {
	a := &Audio{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   make([][]float64, nch),
	}
	for ch := range a.Channels {
		a.Channels[ch] = make([]float64, frames)
	}
	return a
}

func deinterleaveInts(data []int, channels [][]float64, scale float64) {
	nch := len(channels)
	for i, v := range data {
		channels[i%nch][i/nch] = float64(v) * scale
	}
}

func deinterleaveFloats(data []float32, channels [][]float64) {
	nch := len(channels)
	for i, v := range data {
		channels[i%nch][i/nch] = float64(v)
	}
}
