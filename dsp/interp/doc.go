// Package interp provides the small interpolation kernels used by the delay
// line readers.
//
//   - [Linear2]: 2-point linear interpolation between neighboring samples
//   - [Slope]:   first-order forward extrapolation from the local derivative
//
// Neither is a fractional-delay filter; they shape the character of the
// Digital and Interpolated delay modes.
package interp
