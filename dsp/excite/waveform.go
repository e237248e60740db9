package excite

import (
	"fmt"
	"strings"
)

// Waveform selects the shape of the strike burst.
type Waveform uint8

const (
	Noise Waveform = iota
	Sine
	Square
	Saw
	Triangle
	Click
	Pulse

	numWaveforms
)

var waveformNames = [numWaveforms]string{
	Noise:    "noise",
	Sine:     "sine",
	Square:   "square",
	Saw:      "saw",
	Triangle: "triangle",
	Click:    "click",
	Pulse:    "pulse",
}

// Waveforms lists every valid Waveform in declaration order.
func Waveforms() []Waveform {
	out := make([]Waveform, numWaveforms)
	for i := range out {
		out[i] = Waveform(i)
	}
	return out
}

// Valid reports whether w is one of the declared waveforms.
func (w Waveform) Valid() bool {
	return w < numWaveforms
}

// Periodic reports whether w has a pitch of its own (sine, square, saw,
// triangle). Noise, click and pulse are broadband.
func (w Waveform) Periodic() bool {
	switch w {
	case Sine, Square, Saw, Triangle:
		return true
	default:
		return false
	}
}

func (w Waveform) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Waveform(%d)", w)
	}
	return waveformNames[w]
}

// ParseWaveform returns the waveform named s (case-insensitive).
func ParseWaveform(s string) (Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return Noise, fmt.Errorf("excite: unknown waveform %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (w Waveform) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("excite: invalid waveform %d", w)
	}
	return []byte(waveformNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Waveform) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveform(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
