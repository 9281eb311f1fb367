// Package buffer provides the fixed-size sample storage used by the delay
// line and a pooled planar block type for renderers.
//
// A [Ring] is a zero-initialized, fixed-length sequence of samples for one
// audio channel. It owns no read or write position; indexing policy belongs
// to the delay line that holds it. A [Block] holds one slice per channel for
// block-wise host I/O and can be recycled through a [Pool].
package buffer
