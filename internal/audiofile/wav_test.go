package audiofile

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-delay/internal/testutil"
)

func stereoSine(frames int) *Audio {
	return &Audio{
		SampleRate: 48000,
		Channels: [][]float64{
			testutil.Sine(440, 48000, 0.8, frames),
			testutil.Sine(660, 48000, 0.5, frames),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", bits), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rt.wav")
			in := stereoSine(1000)

			require.NoError(t, WriteFile(path, in, bits))

			out, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, 48000, out.SampleRate)
			assert.Equal(t, bits, out.BitDepth)
			require.Len(t, out.Channels, 2)
			require.Equal(t, 1000, out.Frames())

			eps := 1.5 / (math.Exp2(float64(bits-1)) - 1)
			testutil.RequireSliceNearlyEqual(t, out.Channels[0], in.Channels[0], eps)
			testutil.RequireSliceNearlyEqual(t, out.Channels[1], in.Channels[1], eps)
		})
	}
}

func TestWriteClampsAndZeroesNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	in := &Audio{SampleRate: 8000, Channels: [][]float64{{2, -3, math.NaN(), 0.5}}}

	require.NoError(t, WriteFile(path, in, 16))

	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out.Channels, 1)
	testutil.RequireSliceNearlyEqual(t, out.Channels[0], []float64{1, -1, 0, 0.5}, 1e-4)
}

func TestWriteRejects(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "a.wav"), stereoSine(10), 12)
	require.ErrorIs(t, err, ErrUnsupportedBitDepth)

	err = WriteFile(filepath.Join(dir, "b.wav"), &Audio{SampleRate: 8000}, 16)
	require.ErrorIs(t, err, ErrInvalidFile)

	mismatch := &Audio{SampleRate: 8000, Channels: [][]float64{{0, 0}, {0}}}
	err = WriteFile(filepath.Join(dir, "c.wav"), mismatch, 16)
	require.ErrorIs(t, err, ErrChannelMismatch)
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")

	invalid := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalid, []byte("not a wav file"), 0o644))

	_, err = ReadFile(invalid)
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestAudioFramesAndDuration(t *testing.T) {
	a := stereoSine(24000)
	assert.Equal(t, 24000, a.Frames())
	assert.InDelta(t, 0.5, a.Duration(), 1e-12)

	var empty Audio
	assert.Zero(t, empty.Frames())
	assert.Zero(t, empty.Duration())
}
