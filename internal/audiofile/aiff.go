package audiofile

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

const aiffChunkFrames = 4096

// ReadAIFF decodes a PCM AIFF stream.
func ReadAIFF(r io.ReadSeeker) (*Audio, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing AIFF format", ErrInvalidFile)
	}
	bitDepth := int(dec.BitDepth)
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	nch := format.NumChannels
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, aiffChunkFrames*nch),
		SourceBitDepth: bitDepth,
	}

	var data []int
	for {
		n, err := dec.PCMBuffer(buf)
		data = append(data, buf.Data[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audiofile: decode AIFF: %w", err)
		}
		if n == 0 || n < len(buf.Data) {
			break
		}
	}

	frames := len(data) / nch
	a := newAudio(format.SampleRate, bitDepth, nch, frames)
	deinterleaveInts(data[:frames*nch], a.Channels, 1/maxVal)
	return a, nil
}
