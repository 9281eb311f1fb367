// Package delay implements a stereo-locked circular delay line and the three
// read/advance policies that give the delay its character.
//
// A [Line] owns one [buffer.Ring] per channel and a single read index and
// write index shared by all channels, so every channel is always read and
// written at the same offset within a sample. Capacity is
// floor(sampleRate) * [MaxDelaySeconds] samples per channel.
//
// The read step and the default write step wrap against floor(sampleRate)
// rather than the full capacity. This bounds the effective window to about
// one second and is part of the audible character of the effect.
//
// A [Mode] selects which pair of read and advance operations is applied:
//
//   - [ModeInterpolated]: [Line.ReadInterpolated] + [Line.AdvanceDefault]
//   - [ModeLegacy]:       [Line.Read] + [Line.AdvanceDefault]
//   - [ModeDigital]:      [Line.ReadLinear] + [Line.AdvanceDigital]
//
// Only [Line.Configure] allocates, apart from [Line.Snapshot] growing a short
// destination. Every other operation is allocation free and safe to call from
// a real-time audio callback.
package delay
