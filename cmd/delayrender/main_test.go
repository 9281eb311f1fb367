package main

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-delay/dsp/delay"
	"github.com/cwbudde/algo-delay/internal/audiofile"
	"github.com/cwbudde/algo-delay/internal/automation"
	"github.com/cwbudde/algo-delay/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, channels ...[]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, audiofile.WriteFile(path, &audiofile.Audio{SampleRate: 1000, Channels: channels}, 16))
	return path
}

func TestParseFlagsDefaults(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseFlags([]string{"-in", "a.wav", "-out", "b.wav"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.params.DelaySeconds)
	assert.Equal(t, 0.2, cfg.params.Feedback)
	assert.Equal(t, 1.0, cfg.params.Pitch)
	assert.Equal(t, 0.5, cfg.params.Mix)
	assert.Equal(t, delay.ModeInterpolated, cfg.params.Mode)
	assert.Equal(t, 1024, cfg.block)
	assert.True(t, cfg.tail)
	assert.True(t, math.IsNaN(cfg.delayEnd))
}

func TestParseFlagsMode(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseFlags([]string{"-ir", "-mode", "Digit"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, delay.ModeDigital, cfg.params.Mode)

	_, err = parseFlags([]string{"-ir", "-mode", "tape"}, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "unknown mode")
}

func TestParseFlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "no input", args: nil, msg: "-in is required"},
		{name: "no output", args: []string{"-in", "a.wav"}, msg: "-out or -play"},
		{name: "ir and in", args: []string{"-ir", "-in", "a.wav"}, msg: "mutually exclusive"},
		{name: "bad block", args: []string{"-ir", "-block", "0"}, msg: "-block"},
		{name: "bad bits", args: []string{"-ir", "-bits", "8"}, msg: "-bits"},
		{name: "delay range", args: []string{"-ir", "-delay", "3"}, msg: "delay time"},
		{name: "pitch range", args: []string{"-ir", "-pitch", "0.5"}, msg: "pitch"},
		{name: "ramp target", args: []string{"-ir", "-delay-end", "0"}, msg: "ramp target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseFlags(tt.args, &stderr)
			require.ErrorIs(t, err, errUsage)
			assert.Contains(t, stderr.String(), tt.msg)
		})
	}
}

func TestConfigFeed(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseFlags([]string{"-ir", "-delay", "0.1", "-delay-end", "0.3", "-ramp", "0.5", "-ramp-log"}, &stderr)
	require.NoError(t, err)

	f := cfg.feed(1000)
	require.NotNil(t, f.Delay)
	assert.Nil(t, f.Pitch)
	assert.Equal(t, automation.Ramp{From: 0.1, To: 0.3, Samples: 500, Curve: automation.Logarithmic}, *f.Delay)
	assert.Equal(t, 0.3, f.At(500).DelaySeconds)
}

func TestListModes(t *testing.T) {
	stdout, _, err := runCLI(t, "-list-modes")
	require.NoError(t, err)
	for _, m := range delay.Modes() {
		assert.Contains(t, stdout, m.String())
	}
	assert.Contains(t, stdout, "quantized loop")
}

func TestRunImpulseResponse(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ir.wav")
	stdout, stderr, err := runCLI(t,
		"-ir", "-rate", "1000", "-ir-seconds", "0.5",
		"-mode", "legacy", "-delay", "0.1", "-feedback", "0.5", "-mix", "1",
		"-out", out, "-v",
	)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "first echo")
	assert.Contains(t, stdout, "99 samples")
	assert.Contains(t, stdout, "decay ratio")
	assert.Contains(t, stdout, "0.5000")
	assert.Contains(t, stderr, "rendered")

	a, err := audiofile.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1000, a.SampleRate)
	assert.Equal(t, 24, a.BitDepth)
	require.Equal(t, 500, a.Frames())
	assert.InDelta(t, 1.0, a.Channels[0][99], 1e-6)
	assert.InDelta(t, 0.5, a.Channels[1][198], 1e-6)
}

func TestRunRendersFileWithTail(t *testing.T) {
	in := writeInput(t, testutil.Impulse(200, 0))
	out := filepath.Join(t.TempDir(), "out.wav")

	_, stderr, err := runCLI(t,
		"-in", in, "-out", out,
		"-mode", "legacy", "-delay", "0.1", "-feedback", "0.5", "-mix", "1",
		"-block", "64",
	)
	require.NoError(t, err, stderr)

	a, err := audiofile.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 16, a.BitDepth)
	require.Len(t, a.Channels, 2)

	// The tail is trimmed after the last echo above the -96 dB floor
	// within one second of tail.
	require.Equal(t, 1189, a.Frames())
	assert.InDelta(t, 1.0, a.Channels[0][99], 1e-4)
	assert.InDelta(t, 0.5, a.Channels[1][198], 1e-4)
	assert.InDelta(t, math.Pow(0.5, 11), a.Channels[0][1188], 1e-4)
}

func TestRunWithoutTail(t *testing.T) {
	in := writeInput(t, testutil.Sine(50, 1000, 0.5, 300), testutil.Noise(1, 0.3, 300))
	out := filepath.Join(t.TempDir(), "out.wav")

	_, stderr, err := runCLI(t, "-in", in, "-out", out, "-tail=false", "-bits", "32", "-pitch", "2", "-pitch-end", "4")
	require.NoError(t, err, stderr)

	a, err := audiofile.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 300, a.Frames())
	assert.Equal(t, 32, a.BitDepth)
	testutil.RequireFinite(t, a.Channels[0])
	testutil.RequireFinite(t, a.Channels[1])
}

func TestRunMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.wav")
	_, _, err := runCLI(t, "-in", filepath.Join(t.TempDir(), "missing.wav"), "-out", out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errUsage))
	assert.Contains(t, err.Error(), "open input")
}
