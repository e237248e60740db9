package synth

import (
	"sync/atomic"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/dsp/modal"
)

// globals are written by control goroutines and read by the renderer.
type globals struct {
	metalness   core.Float64
	brightness  core.Float64
	damping     core.Float64
	subToneMix  core.Float64
	plateVolume core.Float64
	drive       core.Float64
	masterGain  core.Float64
	waveform    atomic.Uint32
	window      atomic.Int32
	limiter     atomic.Bool
}

func (g *globals) init(window int) {
	g.metalness.Store(0.5)
	g.brightness.Store(0.5)
	g.damping.Store(0.5)
	g.plateVolume.Store(0.5)
	g.masterGain.Store(1)
	g.waveform.Store(uint32(excite.Noise))
	g.window.Store(int32(core.ClampInt(window, modal.MinWindow, modal.MaxWindow)))
	g.limiter.Store(true)
}

func (g *globals) timbre() timbre {
	return timbre{
		metalness:  g.metalness.Load(),
		brightness: g.brightness.Load(),
		damping:    g.damping.Load(),
	}
}

func (g *globals) activeWindow() int {
	return int(g.window.Load())
}

// SetMetalness sets the global metalness in [0, 1]. Sounding voices follow
// within one parameter update interval.
func (e *Engine) SetMetalness(v float64) { e.g.metalness.Store(core.Clamp01(v)) }

// Metalness returns the global metalness.
func (e *Engine) Metalness() float64 { return e.g.metalness.Load() }

// SetBrightness sets the global brightness in [0, 1].
func (e *Engine) SetBrightness(v float64) { e.g.brightness.Store(core.Clamp01(v)) }

// Brightness returns the global brightness.
func (e *Engine) Brightness() float64 { return e.g.brightness.Load() }

// SetDamping sets the global damping in [0, 1].
func (e *Engine) SetDamping(v float64) { e.g.damping.Store(core.Clamp01(v)) }

// Damping returns the global damping.
func (e *Engine) Damping() float64 { return e.g.damping.Load() }

// SetWaveform sets the excitation used by Strike and the control adapter.
// Invalid values select Noise.
func (e *Engine) SetWaveform(w excite.Waveform) {
	if !w.Valid() {
		w = excite.Noise
	}
	e.g.waveform.Store(uint32(w))
}

// Waveform returns the global excitation waveform.
func (e *Engine) Waveform() excite.Waveform { return excite.Waveform(e.g.waveform.Load()) }

// SetSubToneMix sets the global sub-tone mix in [0, 1].
func (e *Engine) SetSubToneMix(v float64) { e.g.subToneMix.Store(core.Clamp01(v)) }

// SubToneMix returns the global sub-tone mix.
func (e *Engine) SubToneMix() float64 { return e.g.subToneMix.Load() }

// SetPlateVolume sets the plate level in the mix, [0, 1].
func (e *Engine) SetPlateVolume(v float64) { e.g.plateVolume.Store(core.Clamp01(v)) }

// PlateVolume returns the plate level.
func (e *Engine) PlateVolume() float64 { return e.g.plateVolume.Load() }

// SetDrive sets the master saturation amount, [0, 1]. 0 bypasses it.
func (e *Engine) SetDrive(v float64) { e.g.drive.Store(core.Clamp01(v)) }

// Drive returns the master saturation amount.
func (e *Engine) Drive() float64 { return e.g.drive.Load() }

// SetMasterGain sets the master gain, [0, 1].
func (e *Engine) SetMasterGain(v float64) { e.g.masterGain.Store(core.Clamp01(v)) }

// MasterGain returns the master gain.
func (e *Engine) MasterGain() float64 { return e.g.masterGain.Load() }

// SetLimiterEnabled switches the output ceiling on or off.
func (e *Engine) SetLimiterEnabled(on bool) { e.g.limiter.Store(on) }

// LimiterEnabled reports whether the output ceiling is on.
func (e *Engine) LimiterEnabled() bool { return e.g.limiter.Load() }

// SetActiveVoiceWindow sets how many voices may sound at once, clamped to
// [modal.MinWindow, modal.MaxWindow]. The renderer applies it at the start
// of the next block.
func (e *Engine) SetActiveVoiceWindow(n int) {
	e.g.window.Store(int32(core.ClampInt(n, modal.MinWindow, modal.MaxWindow)))
}

// ActiveVoiceWindow returns the clamped window size.
func (e *Engine) ActiveVoiceWindow() int { return e.g.activeWindow() }
