package control

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/synth"
)

// Impact mapping constants.
const (
	BasePitch  = 200.0
	PitchRange = 400.0
)

// Target is the engine surface the adapter drives.
type Target interface {
	EnqueueTrigger(ev synth.TriggerEvent) bool
	TriggerPlate(freq, amplitude float64, mode int)

	SetMetalness(v float64)
	Metalness() float64
	SetBrightness(v float64)
	SetDamping(v float64)
	SetWaveform(w excite.Waveform)
	Waveform() excite.Waveform
	SetSubToneMix(v float64)
	SubToneMix() float64
	SetPlateVolume(v float64)
	SetDrive(v float64)
	SetMasterGain(v float64)
	SetLimiterEnabled(on bool)
	SetActiveVoiceWindow(n int)
}

var _ Target = (*synth.Engine)(nil)

// Counters are cumulative message counts since the adapter was created.
type Counters struct {
	Impacts        uint64
	DroppedImpacts uint64
	States         uint64
	Plates         uint64
	Settings       uint64
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRandomPitch starts the adapter in random-pitch mode.
func WithRandomPitch(on bool) Option {
	return func(a *Adapter) { a.randomPitch.Store(on) }
}

// WithSeed seeds the random-pitch generator.
func WithSeed(seed uint64) Option {
	return func(a *Adapter) { a.rng = rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)) }
}

// WithLogger sets the adapter logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// Adapter translates messages into engine calls. It is safe for concurrent
// use.
type Adapter struct {
	target Target
	log    zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand

	randomPitch atomic.Bool

	impacts        atomic.Uint64
	droppedImpacts atomic.Uint64
	states         atomic.Uint64
	plates         atomic.Uint64
	settings       atomic.Uint64
}

// NewAdapter returns an adapter driving target.
func NewAdapter(target Target, opts ...Option) *Adapter {
	a := &Adapter{
		target: target,
		log:    zerolog.Nop(),
		rng:    rand.New(rand.NewPCG(1, 2)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("component", "control").Logger()
	return a
}

// SetRandomPitch switches between position-driven and random pitch.
func (a *Adapter) SetRandomPitch(on bool) { a.randomPitch.Store(on) }

// RandomPitch reports whether impacts get a random pitch.
func (a *Adapter) RandomPitch() bool { return a.randomPitch.Load() }

// ImpactEvent returns the strike an impact maps to. Waveform, sub-tone mix
// and metalness come from the target's current globals.
func (a *Adapter) ImpactEvent(m Impact) synth.TriggerEvent {
	energy := core.Clamp01(m.Energy)
	y := core.Clamp01(m.Y)

	pos := y
	if a.randomPitch.Load() {
		a.mu.Lock()
		pos = a.rng.Float64()
		a.mu.Unlock()
	}

	return synth.TriggerEvent{
		Freq:       BasePitch + PitchRange*pos,
		Amplitude:  math.Pow(energy, 1.5),
		Damping:    0.2 + 0.6*(1-y),
		Brightness: 0.3 + 0.7*energy,
		Metalness:  a.target.Metalness(),
		Waveform:   a.target.Waveform(),
		SubToneMix: a.target.SubToneMix(),
	}
}

// Impact strikes a voice. It returns false when the engine inbox was full.
func (a *Adapter) Impact(m Impact) bool {
	a.impacts.Add(1)
	if a.target.EnqueueTrigger(a.ImpactEvent(m)) {
		return true
	}
	if a.droppedImpacts.Add(1) == 1 {
		a.log.Warn().Int("id", m.ID).Msg("engine inbox full, dropping impacts")
	}
	return false
}

// State maps activity to drive, gesture to brightness and presence to
// master gain.
func (a *Adapter) State(s State) {
	a.states.Add(1)
	a.target.SetDrive(s.Activity)
	a.target.SetBrightness(s.Gesture)
	a.target.SetMasterGain(s.Presence)
}

// Plate forwards a plate update unchanged. The engine clamps it.
func (a *Adapter) Plate(p Plate) {
	a.plates.Add(1)
	a.target.TriggerPlate(p.Freq, p.Amplitude, p.Mode)
}

// Apply writes every non-nil field of s to the target.
func (a *Adapter) Apply(s Settings) {
	a.settings.Add(1)
	setFloat(s.Metalness, a.target.SetMetalness)
	setFloat(s.Brightness, a.target.SetBrightness)
	setFloat(s.Damping, a.target.SetDamping)
	setFloat(s.SubToneMix, a.target.SetSubToneMix)
	setFloat(s.PlateVolume, a.target.SetPlateVolume)
	setFloat(s.Drive, a.target.SetDrive)
	setFloat(s.MasterGain, a.target.SetMasterGain)
	if s.Waveform != nil {
		a.target.SetWaveform(*s.Waveform)
	}
	if s.Limiter != nil {
		a.target.SetLimiterEnabled(*s.Limiter)
	}
	if s.VoiceWindow != nil {
		a.target.SetActiveVoiceWindow(*s.VoiceWindow)
	}
	if s.RandomPitch != nil {
		a.SetRandomPitch(*s.RandomPitch)
	}
	a.log.Debug().Msg("settings applied")
}

// Counters returns the message counts.
func (a *Adapter) Counters() Counters {
	return Counters{
		Impacts:        a.impacts.Load(),
		DroppedImpacts: a.droppedImpacts.Load(),
		States:         a.states.Load(),
		Plates:         a.plates.Load(),
		Settings:       a.settings.Load(),
	}
}

func setFloat(v *float64, set func(float64)) {
	if v != nil {
		set(*v)
	}
}
