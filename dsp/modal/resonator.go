package modal

import (
	"github.com/cwbudde/algo-modal/dsp/filter/biquad"
	"github.com/cwbudde/algo-modal/dsp/filter/design"
)

// Resonator is one tunable resonant mode.
type Resonator struct {
	section biquad.Section
	freq    float64
	q       float64
	gain    float64
}

// SetCoefficients retunes the mode. freq and q are clamped to the stable
// range of design.Resonant; the delay line is kept.
func (r *Resonator) SetCoefficients(freq, q, gain, sampleRate float64) {
	r.section.SetCoefficients(design.Resonant(freq, q, gain, sampleRate))
	r.freq = design.ClampResonantFreq(freq, sampleRate)
	r.q = q
	r.gain = gain
}

// Process filters one sample.
func (r *Resonator) Process(x float64) float64 {
	return r.section.ProcessSample(x)
}

// ProcessBlockAdd filters src and adds the result into dst.
func (r *Resonator) ProcessBlockAdd(dst, src []float64) {
	r.section.ProcessBlockAdd(dst, src)
}

// Reset zeroes the filter state.
func (r *Resonator) Reset() {
	r.section.Reset()
}

// Freq returns the clamped centre frequency last applied.
func (r *Resonator) Freq() float64 { return r.freq }

// Gain returns the mode gain last applied.
func (r *Resonator) Gain() float64 { return r.gain }

// Coefficients returns the current biquad coefficients.
func (r *Resonator) Coefficients() biquad.Coefficients {
	return r.section.Coefficients
}
