// Package effects provides the per-sample stereo delay processor.
//
// [Delay] reads a wet frame from a [delay.Line] through the strategy of the
// current [delay.Mode], blends it with the dry input, writes the feedback
// (or, while frozen, the wet frame itself) back into the line and advances
// the line. Parameters arrive already smoothed, one [Params] value per
// sample, through a [ParamFeed].
//
// The hot path performs no allocation, locking or error handling. Only
// construction and [Delay.Configure] allocate.
package effects
