// Package plate implements the continuously excited plate resonator: a bank
// of resonant modes driven by white noise whose pitch, level and character
// are streamed in from a control goroutine.
//
// If the stream stops for longer than the timeout, the plate fades itself
// out so a lost controller can never leave it droning.
package plate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/modal"
)

const (
	NumModes = 6

	MinFreq = 20.0
	MaxFreq = 2000.0
	MaxMode = 7

	DefaultTimeout = 2000 * time.Millisecond

	fadeSeconds   = 0.1
	fadeFloor     = 1e-3
	silentDrive   = 1e-3
	silentTail    = 1e-6
	refreshBlocks = 4
	refreshHz     = 1.0
	noiseGain     = 0.1

	// excitationBlock is the chunk the mode bank is run over.
	excitationBlock = 256
)

var (
	inharmonicRatios = [NumModes]float64{1, 2.76, 5.40, 8.93, 13.34, 18.65}
	baseGains        = [NumModes]float64{1, 0.8, 0.65, 0.5, 0.4, 0.3}
	modeQ            = [NumModes]float64{20, 25, 30, 35, 40, 45}
)

// Option configures a Resonator.
type Option func(*Resonator) error

// WithClock replaces the monotonic clock used by the fail-safe.
func WithClock(now func() time.Duration) Option {
	return func(r *Resonator) error {
		if now == nil {
			return fmt.Errorf("plate: clock must not be nil")
		}
		r.now = now
		return nil
	}
}

// WithTimeout sets how long the plate keeps sounding without updates.
func WithTimeout(d time.Duration) Option {
	return func(r *Resonator) error {
		if d <= 0 {
			return fmt.Errorf("plate: timeout must be > 0: %v", d)
		}
		r.timeout = d
		return nil
	}
}

// Resonator is the plate. Trigger may be called from any goroutine; Prepare,
// Render and Reset belong to the render goroutine.
type Resonator struct {
	freq       core.Float64
	amp        core.Float64
	mode       atomic.Int32
	lastUpdate atomic.Int64
	updated    atomic.Bool

	now     func() time.Duration
	timeout time.Duration

	modes       [NumModes]modal.Resonator
	appliedFreq float64
	appliedMode int
	applied     bool
	blocks      uint64

	fade       float64
	fadeStep   float64
	tailPeak   float64
	excitation [excitationBlock]float64

	rng        *rand.Rand
	sampleRate float64
	prepared   bool
}

// New returns an unprepared plate.
func New(opts ...Option) (*Resonator, error) {
	start := time.Now()
	r := &Resonator{
		now:     func() time.Duration { return time.Since(start) },
		timeout: DefaultTimeout,
		fade:    1,
	}
	r.freq.Store(MinFreq)

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Prepare sets the sample rate and seeds the noise source.
func (r *Resonator) Prepare(sampleRate float64, seed uint64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("plate: sample rate must be > 0 and finite: %f", sampleRate)
	}

	r.sampleRate = sampleRate
	r.fadeStep = core.OnePoleCoefficient(fadeSeconds, sampleRate)
	r.rng = rand.New(rand.NewPCG(seed, ^seed))
	r.prepared = true
	r.Reset()

	return nil
}

// Trigger updates the excitation and stamps the fail-safe timer. freq is
// clamped to [MinFreq, MaxFreq], amplitude to [0, 1] and mode to
// [0, MaxMode].
func (r *Resonator) Trigger(freq, amplitude float64, mode int) {
	r.freq.Store(core.Clamp(freq, MinFreq, MaxFreq))
	r.amp.Store(core.Clamp01(amplitude))
	r.mode.Store(int32(core.ClampInt(mode, 0, MaxMode)))
	r.lastUpdate.Store(int64(r.now()))
	r.updated.Store(true)
}

// Freq, Amplitude and Mode return the last requested values.
func (r *Resonator) Freq() float64      { return r.freq.Load() }
func (r *Resonator) Amplitude() float64 { return r.amp.Load() }
func (r *Resonator) Mode() int          { return int(r.mode.Load()) }

// AppliedFreq returns the base frequency the mode bank is tuned to.
func (r *Resonator) AppliedFreq() float64 { return r.appliedFreq }

// Fade returns the fail-safe gain in [0, 1].
func (r *Resonator) Fade() float64 { return r.fade }

// TimedOut reports whether the plate has gone without updates for longer
// than the timeout. It is false until the first Trigger.
func (r *Resonator) TimedOut() bool {
	if !r.updated.Load() {
		return false
	}
	return r.now()-time.Duration(r.lastUpdate.Load()) > r.timeout
}

// ModeRatios returns the frequency ratios for mode m: the inharmonic set at
// 0 moving linearly to the harmonic series at MaxMode.
func ModeRatios(m int) [NumModes]float64 {
	t := float64(core.ClampInt(m, 0, MaxMode)) / MaxMode

	var out [NumModes]float64
	for i, r := range inharmonicRatios {
		out[i] = (1-t)*r + t*float64(i+1)
	}
	return out
}

// ModeGains returns the gain of every partial for mode m. Higher modes
// attenuate the upper partials more.
func ModeGains(m int) [NumModes]float64 {
	mode := float64(core.ClampInt(m, 0, MaxMode))

	var out [NumModes]float64
	for i, g := range baseGains {
		pos := float64(i) / (NumModes - 1)
		out[i] = g * (1 - 0.1*mode*pos)
	}
	return out
}

func (r *Resonator) retune(freq float64, mode int) {
	ratios := ModeRatios(mode)
	gains := ModeGains(mode)
	for i := range r.modes {
		r.modes[i].SetCoefficients(freq*ratios[i], modeQ[i], gains[i], r.sampleRate)
	}
	r.appliedFreq = freq
	r.appliedMode = mode
	r.applied = true
}

// Render overwrites dst with the next block of plate output.
func (r *Resonator) Render(dst []float64) {
	if !r.prepared {
		clear(dst)
		return
	}

	timedOut := r.TimedOut()

	if r.blocks%refreshBlocks == 0 {
		f := r.freq.Load()
		m := int(r.mode.Load())
		if !r.applied || math.Abs(f-r.appliedFreq) > refreshHz || m != r.appliedMode {
			r.retune(f, m)
		}
	}
	r.blocks++

	amp := r.amp.Load()

	if amp*r.fade < silentDrive && r.tailPeak < silentTail {
		r.advanceFade(timedOut, len(dst))
		clear(dst)
		return
	}

	peak := 0.0
	for start := 0; start < len(dst); start += excitationBlock {
		out := dst[start:min(start+excitationBlock, len(dst))]
		x := r.excitation[:len(out)]
		r.fillExcitation(x, amp, timedOut)

		clear(out)
		for m := range r.modes {
			r.modes[m].ProcessBlockAdd(out, x)
		}
		peak = max(peak, core.PeakAbs(out))
	}
	r.tailPeak = peak
}

// fillExcitation writes faded white noise into x.
func (r *Resonator) fillExcitation(x []float64, amp float64, timedOut bool) {
	for i := range x {
		if timedOut {
			r.fade *= r.fadeStep
			if r.fade < fadeFloor {
				r.fade = 0
			}
		} else {
			r.fade = 1 - (1-r.fade)*r.fadeStep
		}
		x[i] = (2*r.rng.Float64() - 1) * amp * r.fade * noiseGain
	}
}

// advanceFade moves the fade n samples forward without rendering.
func (r *Resonator) advanceFade(timedOut bool, n int) {
	step := math.Pow(r.fadeStep, float64(n))
	if timedOut {
		r.fade *= step
		if r.fade < fadeFloor {
			r.fade = 0
		}
		return
	}
	r.fade = 1 - (1-r.fade)*step
}

// Reset clears the filter state and restores full fade. The requested
// frequency, amplitude and mode are kept.
func (r *Resonator) Reset() {
	for i := range r.modes {
		r.modes[i].Reset()
	}
	r.fade = 1
	r.tailPeak = 0
	r.blocks = 0
	r.applied = false
}
