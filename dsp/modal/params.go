package modal

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/excite"
)

// NumModes is the number of resonant modes per voice.
const NumModes = 6

const (
	MinFreq = 20.0
	MaxFreq = 12000.0

	// SilenceThreshold is the envelope level below which a voice is
	// considered finished. Decay times are measured to this level.
	SilenceThreshold = 1e-4

	minDecaySeconds = 0.01
	maxDecaySeconds = 5.0

	baseQ     = 25.0
	qStep     = 7.0
	qDamping  = 0.4
	detuneMax = 0.04
)

var (
	inharmonicRatios = [NumModes]float64{1, 2.76, 5.40, 8.93, 13.34, 18.65}
	baseModeGains    = [NumModes]float64{1, 0.8, 0.9, 0.7, 0.6, 0.5}
)

// Params describe one strike.
type Params struct {
	Freq       float64 // Hz, [MinFreq, MaxFreq]
	Amplitude  float64 // [0, 1]
	Damping    float64 // [0, 1], 1 is the shortest decay
	Brightness float64 // [0, 1]
	Metalness  float64 // [0, 1], 0 is harmonic, 1 fully inharmonic
	Waveform   excite.Waveform
	SubToneMix float64 // [0, 1]
}

// Clamped returns p with every field forced into range. NaN fields take the
// bottom of their range and unknown waveforms become Noise.
func (p Params) Clamped() Params {
	p.Freq = core.Clamp(p.Freq, MinFreq, MaxFreq)
	p.Amplitude = core.Clamp01(p.Amplitude)
	p.Damping = core.Clamp01(p.Damping)
	p.Brightness = core.Clamp01(p.Brightness)
	p.Metalness = core.Clamp01(p.Metalness)
	p.SubToneMix = core.Clamp01(p.SubToneMix)
	if !p.Waveform.Valid() {
		p.Waveform = excite.Noise
	}
	return p
}

// DecayTime returns how long, in seconds, the envelope of a voice with the
// given damping takes to fall from 1 to SilenceThreshold. The mapping is
// inverse-cubic: 0 rings for 5 s, 1 dies in 10 ms.
func DecayTime(damping float64) float64 {
	c := 1 - core.Clamp01(damping)
	return minDecaySeconds + c*c*c*(maxDecaySeconds-minDecaySeconds)
}

// DecayCoefficient returns the per-sample envelope multiplier for damping.
func DecayCoefficient(damping, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return math.Pow(SilenceThreshold, 1/(DecayTime(damping)*sampleRate))
}

// ModeRatios returns the frequency ratio of every mode for metalness m
// before detune. At m = 0 every mode sits on the fundamental; at m = 1 the
// ratios are the full inharmonic set.
func ModeRatios(metalness float64) [NumModes]float64 {
	m := core.Clamp01(metalness)
	spread := m * m

	var out [NumModes]float64
	for i, r := range inharmonicRatios {
		out[i] = 1 + spread*(r-1)
	}
	return out
}

// ModeGains returns the gain of every mode for brightness b. The curve is
// b squared, split at 0.5: above it low modes are cut by up to 90 % and high
// modes boosted by up to 300 %; below it low modes are boosted by up to
// 200 % and high modes cut by up to 80 %.
func ModeGains(brightness float64) [NumModes]float64 {
	b := core.Clamp01(brightness)
	curve := b * b

	var out [NumModes]float64
	for i, g := range baseModeGains {
		pos := float64(i) / float64(NumModes-1)

		if curve > 0.5 {
			amount := (curve - 0.5) * 2
			g *= 1 - amount*(1-pos)*0.9
			g *= 1 + amount*pos*3
		} else {
			amount := (0.5 - curve) * 2
			g *= 1 + amount*(1-pos)*2
			g *= 1 - amount*pos*0.8
		}

		out[i] = g
	}
	return out
}

// ModeQ returns the quality factor of mode i for damping d.
func ModeQ(i int, damping float64) float64 {
	return (baseQ + qStep*float64(i)) * (1 - qDamping*core.Clamp01(damping))
}

// FormantFreq and FormantGain return the centre and linear gain of the
// presence peak applied after the mode bank.
func FormantFreq(brightness float64) float64 {
	return 3000 * (1 + 0.5*core.Clamp01(brightness))
}

func FormantGain(brightness float64) float64 {
	return 1.3 * (0.8 + 0.4*core.Clamp01(brightness))
}

const formantQ = 2.0
