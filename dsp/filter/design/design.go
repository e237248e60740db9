package design

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/filter/biquad"
)

const (
	defaultQ = 1 / math.Sqrt2

	// MinResonantFreq and MaxResonantFraction bound the centre frequency of a
	// resonant mode; the upper bound is a fraction of Nyquist.
	MinResonantFreq     = 20.0
	MaxResonantFraction = 0.95

	// MinResonantQ and MaxResonantQ bound the mode quality factor.
	MinResonantQ = 0.5
	MaxResonantQ = 200.0
)

// Bandpass designs a constant-skirt-gain bandpass biquad. Peak gain equals q.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := sw / 2
	b1 := 0.0
	b2 := -sw / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Resonant designs one resonant mode: a constant-skirt bandpass whose
// numerator is scaled by gain. freq is clamped to
// [MinResonantFreq, MaxResonantFraction*Nyquist] and q to
// [MinResonantQ, MaxResonantQ], so the result is always stable for a valid
// sample rate.
func Resonant(freq, q, gain, sampleRate float64) biquad.Coefficients {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return biquad.Coefficients{}
	}

	freq = ClampResonantFreq(freq, sampleRate)
	q = core.Clamp(q, MinResonantQ, MaxResonantQ)
	if !core.IsFinite(gain) {
		gain = 0
	}

	return Bandpass(freq, q, sampleRate).Scaled(gain)
}

// ClampResonantFreq limits freq to the range Resonant accepts.
func ClampResonantFreq(freq, sampleRate float64) float64 {
	return core.Clamp(freq, MinResonantFreq, MaxResonantFraction*sampleRate/2)
}

// Peak designs an RBJ peaking-EQ biquad with gain in dB.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{B0: 1}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// PeakLinear is Peak with the centre gain given as a linear factor.
// Non-positive gains fall back to unity.
func PeakLinear(freq, gain, q, sampleRate float64) biquad.Coefficients {
	if gain <= 0 || !core.IsFinite(gain) {
		gain = 1
	}

	return Peak(freq, core.LinearToDB(gain), q, sampleRate)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || !core.IsFinite(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || !core.IsFinite(q) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
