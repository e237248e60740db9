package synth

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-modal/dsp/buffer"
	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/effects"
	"github.com/cwbudde/algo-modal/dsp/modal"
	"github.com/cwbudde/algo-modal/dsp/plate"
)

const (
	globalEpsilon = 1e-3

	// maxViewChannels bounds the chunk view; further channels are copied
	// from the bus.
	maxViewChannels = 8
)

// Engine renders the voice pool and the plate into a host-provided block.
type Engine struct {
	cfg config
	log zerolog.Logger

	inbox     *buffer.Ring[TriggerEvent]
	pool      modal.Pool
	plate     *plate.Resonator
	saturator *effects.Saturator
	limiter   *effects.HardLimiter
	meter     *effects.LevelMeter

	g globals

	// Render goroutine only.
	plateBuf    []float64
	view        [][]float64
	blockCount  uint64
	applied     timbre
	drainLimit  int
	backlog     int
	sampleRate  float64
	initialized bool

	prepared    atomic.Bool
	activeCount atomic.Int32
	meanSquare  core.Float64
	processed   atomic.Uint64
	stolen      atomic.Uint64
	blocks      atomic.Uint64
}

type timbre struct {
	metalness, brightness, damping float64
}

// New returns an engine that must be prepared before it renders sound.
// Triggers may be enqueued before Prepare; they wait in the inbox.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	inbox, err := buffer.NewRing[TriggerEvent](cfg.inboxCapacity)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	plateOpts := []plate.Option{plate.WithTimeout(cfg.plateTimeout)}
	if cfg.clock != nil {
		plateOpts = append(plateOpts, plate.WithClock(cfg.clock))
	}
	pl, err := plate.New(plateOpts...)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	sat, err := effects.NewSaturator(0)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	lim, err := effects.NewHardLimiter(cfg.limiterThreshold)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		log:       cfg.logger.With().Str("component", "synth").Logger(),
		inbox:     inbox,
		plate:     pl,
		saturator: sat,
		limiter:   lim,
		view:      make([][]float64, maxViewChannels),
	}
	e.g.init(cfg.voiceWindow)

	e.backlog = 2 * cfg.maxEventsPerBlock
	e.drainLimit = max(cfg.maxEventsPerBlock/2, 1)

	return e, nil
}

// Prepare allocates every buffer for sampleRate and silences the engine.
// It must not run concurrently with Render.
func (e *Engine) Prepare(sampleRate float64) error {
	pc := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: e.cfg.maxBlockSize}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}

	if err := e.pool.Prepare(sampleRate, e.g.activeWindow(), e.cfg.seed); err != nil {
		return fmt.Errorf("synth: %w", err)
	}

	if err := e.plate.Prepare(sampleRate, e.cfg.seed+modal.Capacity); err != nil {
		return fmt.Errorf("synth: %w", err)
	}

	e.sampleRate = sampleRate
	e.meter = effects.NewLevelMeter(effects.DefaultMeterTime, sampleRate)
	e.plateBuf = make([]float64, pc.BlockSize)
	e.blockCount = 0
	e.applied = e.g.timbre()
	e.meanSquare.Store(0)
	e.activeCount.Store(0)
	e.initialized = true
	e.prepared.Store(true)

	e.log.Info().
		Float64("sample_rate", sampleRate).
		Int("max_block", pc.BlockSize).
		Int("voice_window", e.pool.ActiveWindow()).
		Int("inbox_capacity", e.inbox.Cap()).
		Msg("engine prepared")

	return nil
}

// Reset silences every voice and the plate, drops pending events and clears
// the meter. It must be called from the render goroutine or while no Render
// is in flight.
func (e *Engine) Reset() {
	discarded := e.inbox.Discard()
	if e.initialized {
		e.pool.Reset()
		e.plate.Reset()
		e.meter.Reset()
	}
	e.meanSquare.Store(0)
	e.activeCount.Store(0)

	e.log.Debug().Int("discarded_events", discarded).Msg("engine reset")
}

// SampleRate returns the prepared sample rate, or 0.
func (e *Engine) SampleRate() float64 {
	if !e.prepared.Load() {
		return 0
	}
	return e.sampleRate
}

// EnqueueTrigger hands a strike to the render goroutine. It never blocks on
// the renderer; when the inbox is full the event is dropped, counted and
// false is returned.
func (e *Engine) EnqueueTrigger(ev TriggerEvent) bool {
	return e.inbox.Push(ev)
}

// Strike enqueues a strike built from the current global parameters. A
// non-positive freq or amplitude selects DefaultStrikeFreq or
// DefaultStrikeAmp.
func (e *Engine) Strike(freq, amplitude float64) bool {
	if !(freq > 0) {
		freq = DefaultStrikeFreq
	}
	if !(amplitude > 0) {
		amplitude = DefaultStrikeAmp
	}

	t := e.g.timbre()
	return e.EnqueueTrigger(TriggerEvent{
		Freq:       freq,
		Amplitude:  amplitude,
		Damping:    t.damping,
		Brightness: t.brightness,
		Metalness:  t.metalness,
		Waveform:   e.Waveform(),
		SubToneMix: e.SubToneMix(),
	})
}

// TriggerPlate updates the plate excitation. Safe from any goroutine.
func (e *Engine) TriggerPlate(freq, amplitude float64, mode int) {
	e.plate.Trigger(freq, amplitude, mode)
}

// Render fills every channel of out with the next block. All channels must
// have the same length. Before Prepare the block is silent.
func (e *Engine) Render(out [][]float64) {
	if len(out) == 0 {
		return
	}

	if !e.prepared.Load() {
		for _, ch := range out {
			clear(ch)
		}
		return
	}

	n := len(out[0])
	if n <= e.cfg.maxBlockSize {
		e.renderBlock(out)
		return
	}

	// Channels past the view are copies of the bus and are filled per chunk.
	view := e.view[:min(len(out), len(e.view))]

	for start := 0; start < n; start += e.cfg.maxBlockSize {
		end := min(start+e.cfg.maxBlockSize, n)
		for ch := range view {
			view[ch] = out[ch][start:end]
		}
		e.renderBlock(view)
		for ch := len(view); ch < len(out); ch++ {
			copy(out[ch][start:end], view[0])
		}
	}
}

func (e *Engine) renderBlock(out [][]float64) {
	main := out[0]
	n := len(main)

	e.pool.SetActiveWindow(e.g.activeWindow())
	e.drainInbox()

	if e.blockCount%uint64(e.cfg.paramInterval) == 0 {
		e.propagateTimbre()
	}
	e.blockCount++

	e.pool.RenderBlock(out[:1])

	pb := e.plateBuf[:n]
	e.plate.Render(pb)
	if vol := e.g.plateVolume.Load(); vol > 0 {
		vecmath.ScaleBlock(pb, pb, vol)
		vecmath.AddBlockInPlace(main, pb)
	}

	if gain := e.g.masterGain.Load(); gain != 1 {
		vecmath.ScaleBlock(main, main, gain)
	}

	e.saturator.SetDrive(e.g.drive.Load())
	e.saturator.ProcessInPlace(main)

	if e.g.limiter.Load() {
		e.limiter.ProcessInPlace(main)
	}

	e.meter.Process(main)

	for ch := 1; ch < len(out); ch++ {
		copy(out[ch], main)
	}

	e.activeCount.Store(int32(e.pool.ActiveCount()))
	e.meanSquare.Store(e.meter.MeanSquare())
	e.blocks.Add(1)
}

func (e *Engine) drainInbox() {
	limit := e.cfg.maxEventsPerBlock
	if e.inbox.Len() > e.backlog {
		limit = e.drainLimit
	}

	for range limit {
		ev, ok := e.inbox.Pop()
		if !ok {
			return
		}
		if _, stolen := e.pool.TriggerVoice(ev.params()); stolen {
			e.stolen.Add(1)
		}
		e.processed.Add(1)
	}
}

func (e *Engine) propagateTimbre() {
	t := e.g.timbre()
	a := e.applied
	if math.Abs(t.metalness-a.metalness) <= globalEpsilon &&
		math.Abs(t.brightness-a.brightness) <= globalEpsilon &&
		math.Abs(t.damping-a.damping) <= globalEpsilon {
		return
	}

	e.pool.UpdateGlobalParameters(t.metalness, t.brightness, t.damping)
	e.applied = t
}
