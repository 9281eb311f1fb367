// Package automation builds per-sample parameter feeds for the delay
// processor.
//
// [Ramp] describes a fixed linear or logarithmic sweep used by offline
// rendering. [Smoother] glides towards a moving target the way a plugin
// host smooths knob changes, and [SmoothedFeed] applies it to the delay
// time and pitch of a live stream.
package automation
