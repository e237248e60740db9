package modal

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/dsp/filter/biquad"
	"github.com/cwbudde/algo-modal/dsp/filter/design"
)

const (
	// residualFloor is the envelope level below which a voice reports no
	// residual energy to the stealing logic.
	residualFloor = 1e-3

	// voiceGain keeps a full window of struck voices near unity before the
	// master stage.
	voiceGain = 0.25
	subGain   = 0.5

	freqEpsilon  = 0.1
	shapeEpsilon = 0.01
)

// Voice is one struck modal instrument.
type Voice struct {
	modes   [NumModes]Resonator
	formant biquad.Section
	burst   *excite.Burst
	sub     excite.SubOscillator

	params  Params
	applied Params
	fresh   bool
	detune  [NumModes]float64

	env      float64
	decay    float64
	residual float64

	sampleRate float64
}

// Prepare sizes the excitation buffer for sampleRate and seeds the voice's
// random source. It is the only Voice method that allocates.
func (v *Voice) Prepare(sampleRate float64, seed uint64) {
	v.sampleRate = sampleRate
	v.burst = excite.NewBurst(sampleRate, seed)
	for i := range v.detune {
		v.detune[i] = 1
	}
	v.params = Params{Freq: 220, Amplitude: 1, Damping: 0.5, Brightness: 0.5, Metalness: 0.5}
	v.fresh = false
	v.Reset()
	v.refresh()
}

// SetParameters applies p, clamped. Filter coefficients are recomputed only
// when pitch or timbre moved noticeably since the last update.
func (v *Voice) SetParameters(p Params) {
	if v.burst == nil {
		return
	}
	if v.setParams(p) {
		v.refresh()
	}
}

func (v *Voice) setParams(p Params) bool {
	v.params = p.Clamped()

	a := v.applied
	return !v.fresh ||
		math.Abs(v.params.Freq-a.Freq) > freqEpsilon ||
		math.Abs(v.params.Brightness-a.Brightness) > shapeEpsilon ||
		math.Abs(v.params.Metalness-a.Metalness) > shapeEpsilon ||
		math.Abs(v.params.Damping-a.Damping) > shapeEpsilon
}

// Params returns the parameters last applied.
func (v *Voice) Params() Params {
	return v.params
}

// Trigger starts a new strike with the current parameters: the detune is
// re-rolled, a fresh burst generated and the envelope reset to 1.
func (v *Voice) Trigger() {
	if v.burst == nil {
		return
	}

	rng := v.burst.Rand()
	for i := range v.detune {
		v.detune[i] = 1 + (rng.Float64()-0.5)*detuneMax
	}
	v.refresh()

	v.burst.Generate(v.params.Waveform, v.params.Freq)
	v.sub.Start(v.params.Freq, v.sampleRate, v.params.Waveform)
	v.env = 1
	v.residual = v.params.Amplitude
}

// Strike applies p and triggers in one step.
func (v *Voice) Strike(p Params) {
	if v.burst == nil {
		return
	}
	v.setParams(p)
	v.Trigger()
}

func (v *Voice) refresh() {
	p := v.params
	sr := v.sampleRate
	limit := design.MaxResonantFraction * sr / 2

	ratios := ModeRatios(p.Metalness)
	gains := ModeGains(p.Brightness)

	for i := range v.modes {
		f := p.Freq * ratios[i] * v.detune[i]
		g := gains[i]
		if f > limit {
			// Mute modes the sample rate cannot represent.
			g = 0
		}
		v.modes[i].SetCoefficients(f, ModeQ(i, p.Damping), g, sr)
	}

	v.formant.SetCoefficients(design.PeakLinear(
		min(FormantFreq(p.Brightness), limit), FormantGain(p.Brightness), formantQ, sr))

	v.decay = DecayCoefficient(p.Damping, sr)
	v.applied = p
	v.fresh = true
}

// RenderNextSample advances the voice by one sample.
func (v *Voice) RenderNextSample() float64 {
	if !v.IsActive() {
		v.env = 0
		v.residual = 0
		return 0
	}

	x := v.burst.Next()

	sum := 0.0
	for i := range v.modes {
		sum += v.modes[i].Process(x)
	}
	out := v.formant.ProcessSample(sum) * voiceGain

	if v.params.SubToneMix > 0 {
		out += v.sub.Next() * v.params.SubToneMix * subGain
	}

	out *= v.env * v.params.Amplitude
	v.env *= v.decay

	if v.env > residualFloor {
		v.residual = math.Abs(out) * v.env
	} else {
		v.residual = 0
	}

	return out
}

// IsActive reports whether the voice still produces sound.
func (v *Voice) IsActive() bool {
	if v.burst == nil {
		return false
	}
	return v.env > SilenceThreshold || v.burst.Active()
}

// Residual is the stealing score: an estimate of how much the voice still
// contributes. Lower is a better steal candidate.
func (v *Voice) Residual() float64 {
	return v.residual
}

// Envelope returns the current envelope level.
func (v *Voice) Envelope() float64 {
	return v.env
}

// Mode returns mode i for inspection.
func (v *Voice) Mode(i int) *Resonator {
	return &v.modes[i]
}

// Reset silences the voice and clears all filter state. Parameters are kept.
func (v *Voice) Reset() {
	for i := range v.modes {
		v.modes[i].Reset()
	}
	v.formant.Reset()
	v.sub.Reset()
	if v.burst != nil {
		v.burst.Stop()
	}
	v.env = 0
	v.residual = 0
}
