// Package time computes time-domain level statistics of rendered audio:
// RMS, peak, energy, clipping and non-finite sample counts, plus the audible
// tail length of a decaying response.
package time
