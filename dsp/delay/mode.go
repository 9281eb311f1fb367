package delay

import (
	"fmt"
	"strings"
)

// Mode selects the read/advance policy applied to a [Line].
type Mode int

const (
	// ModeInterpolated reads with a small slope extrapolation and advances
	// with the write-slaved reader.
	ModeInterpolated Mode = iota
	// ModeLegacy reads the raw sample at the stepped read index and advances
	// with the write-slaved reader.
	ModeLegacy
	// ModeDigital reads with linear blending and loops the writer over the
	// whole-sample delay length.
	ModeDigital
)

var modeNames = [...]string{
	ModeInterpolated: "interpolated",
	ModeLegacy:       "legacy",
	ModeDigital:      "digital",
}

// Modes returns all modes in declaration order.
func Modes() []Mode {
	return []Mode{ModeInterpolated, ModeLegacy, ModeDigital}
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m.valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name. Matching is case-insensitive and accepts
// the short forms "inter", "wrong" and "digit".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interpolated", "inter":
		return ModeInterpolated, nil
	case "legacy", "wrong":
		return ModeLegacy, nil
	case "digital", "digit":
		return ModeDigital, nil
	default:
		return ModeInterpolated, fmt.Errorf("delay: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("delay: invalid mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mode) valid() bool {
	return m >= ModeInterpolated && m <= ModeDigital
}

// Strategy pairs the read and advance operations of one mode.
type Strategy interface {
	// Read fills out with one wet sample per channel.
	Read(l *Line, delaySeconds float64, out []float64)
	// Advance moves the write and read indices after the frame is written.
	Advance(l *Line, delaySeconds float64)
}

type interpolatedStrategy struct{}

func (interpolatedStrategy) Read(l *Line, _ float64, out []float64) { l.ReadInterpolated(out) }
func (interpolatedStrategy) Advance(l *Line, delaySeconds float64)  { l.AdvanceDefault(delaySeconds) }

type legacyStrategy struct{}

func (legacyStrategy) Read(l *Line, _ float64, out []float64) { l.Read(out) }
func (legacyStrategy) Advance(l *Line, delaySeconds float64)  { l.AdvanceDefault(delaySeconds) }

type digitalStrategy struct{}

func (digitalStrategy) Read(l *Line, delaySeconds float64, out []float64) {
	l.ReadLinear(out, delaySeconds)
}
func (digitalStrategy) Advance(l *Line, delaySeconds float64) { l.AdvanceDigital(delaySeconds) }

var strategies = [...]Strategy{
	ModeInterpolated: interpolatedStrategy{},
	ModeLegacy:       legacyStrategy{},
	ModeDigital:      digitalStrategy{},
}

// Strategy returns the read/advance pair for m. Unknown modes fall back to
// [ModeInterpolated].
func (m Mode) Strategy() Strategy {
	if !m.valid() {
		return strategies[ModeInterpolated]
	}
	return strategies[m]
}
