// Package echo analyzes the impulse response of a feedback delay.
//
// The response to a unit impulse at sample 0 is searched for echo taps:
// local magnitude maxima above a threshold relative to the strongest tap.
// From the taps the analyzer derives:
//
//   - FirstEcho: arrival time of the first tap after sample 0
//   - Spacing: mean distance between consecutive echoes
//   - DecayRatio: mean amplitude ratio of consecutive echoes
//   - RT60: time for the echo train to fall by 60 dB
//
// [CombSpectrum] returns the power spectrum of the response, whose notches
// repeat every 1/Spacing Hz.
//
// # Usage
//
//	analyzer := echo.NewAnalyzer(48000)
//	metrics, err := analyzer.Analyze(response)
//	fmt.Printf("first echo %.3f s, decay %.2f\n", metrics.FirstEcho, metrics.DecayRatio)
package echo
