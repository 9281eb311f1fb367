package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const (
	mp3Channels   = 2
	mp3ChunkBytes = 8192
	vorbisChunk   = 4096
)

// pcm16Reader yields interleaved little-endian int16 stereo bytes.
type pcm16Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// floatReader yields interleaved float32 samples.
type floatReader interface {
	Read([]float32) (int, error)
	SampleRate() int
	Channels() int
}

// ReadMP3 decodes an MP3 stream to stereo.
func ReadMP3(r io.Reader) (*Audio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %w", ErrInvalidFile, err)
	}
	return decodePCM16(dec)
}

// ReadVorbis decodes an Ogg Vorbis stream.
func ReadVorbis(r io.Reader) (*Audio, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: vorbis: %w", ErrInvalidFile, err)
	}
	return decodeFloats(dec)
}

func decodePCM16(dec pcm16Reader) (*Audio, error) {
	var pcm []byte
	chunk := make([]byte, mp3ChunkBytes)
	for {
		n, err := dec.Read(chunk)
		pcm = append(pcm, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decode mp3: %w", err)
		}
		if n == 0 {
			break
		}
	}

	const frameBytes = 2 * mp3Channels
	frames := len(pcm) / frameBytes
	a := newAudio(dec.SampleRate(), 0, mp3Channels, frames)
	for i := range frames {
		for ch := range mp3Channels {
			v := int16(binary.LittleEndian.Uint16(pcm[i*frameBytes+2*ch:]))
			a.Channels[ch][i] = float64(v) / 32768.0
		}
	}
	return a, nil
}

func decodeFloats(dec floatReader) (*Audio, error) {
	nch := dec.Channels()
	if nch < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, nch)
	}

	var samples []float32
	chunk := make([]float32, vorbisChunk*nch)
	for {
		n, err := dec.Read(chunk)
		samples = append(samples, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decode vorbis: %w", err)
		}
		if n == 0 {
			break
		}
	}

	frames := len(samples) / nch
	a := newAudio(dec.SampleRate(), 0, nch, frames)
	deinterleaveFloats(samples[:frames*nch], a.Channels)
	return a, nil
}
