package excite

import "math"

// SubOscillator is a phase-accumulator tone one octave below the voice.
type SubOscillator struct {
	phase float64
	inc   float64
	shape Waveform
}

// SubShape returns the sub-tone shape used for a strike waveform: periodic
// waveforms are followed, broadband ones fall back to a square.
func SubShape(w Waveform) Waveform {
	if w.Periodic() {
		return w
	}
	return Square
}

// Start retunes the oscillator to half of baseFreq and restarts its phase.
func (o *SubOscillator) Start(baseFreq, sampleRate float64, w Waveform) {
	o.phase = 0
	o.shape = SubShape(w)
	o.inc = 0
	if sampleRate > 0 && baseFreq > 0 && !math.IsInf(baseFreq, 0) {
		o.inc = 0.5 * baseFreq / sampleRate
	}
}

// Next returns one sample in [-1, 1].
func (o *SubOscillator) Next() float64 {
	if o.inc == 0 {
		return 0
	}
	y := Shape(o.shape, o.phase)
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= 1
	}
	return y
}

// Reset silences the oscillator until the next Start.
func (o *SubOscillator) Reset() {
	o.phase = 0
	o.inc = 0
}
