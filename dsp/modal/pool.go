package modal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
)

const (
	// Capacity is the number of voices built by Prepare.
	Capacity = 32

	MinWindow     = 4
	MaxWindow     = 12
	DefaultWindow = 8

	residualTie = 1e-4
)

// Pool is a fixed arena of voices. Only the first ActiveWindow voices are
// triggered or rendered.
type Pool struct {
	voices      [Capacity]Voice
	triggeredAt [Capacity]int64

	window     int
	now        int64
	sampleRate float64
	prepared   bool
}

// Prepare builds every voice for sampleRate. Voice i is seeded with seed+i.
func (p *Pool) Prepare(sampleRate float64, window int, seed uint64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("modal: sample rate must be > 0 and finite: %f", sampleRate)
	}

	p.sampleRate = sampleRate
	for i := range p.voices {
		p.voices[i].Prepare(sampleRate, seed+uint64(i))
		p.triggeredAt[i] = -1
	}
	p.now = 0
	p.window = core.ClampInt(window, MinWindow, MaxWindow)
	p.prepared = true

	return nil
}

// SetActiveWindow sets how many voices may sound, clamped to
// [MinWindow, MaxWindow], and returns the applied value. Voices that fall
// outside a shrinking window are silenced.
func (p *Pool) SetActiveWindow(n int) int {
	n = core.ClampInt(n, MinWindow, MaxWindow)
	if p.prepared {
		for i := n; i < p.window; i++ {
			p.voices[i].Reset()
		}
	}
	p.window = n
	return n
}

// ActiveWindow returns the current window size.
func (p *Pool) ActiveWindow() int {
	if p.window == 0 {
		return DefaultWindow
	}
	return p.window
}

// TriggerVoice starts a strike. It takes the first idle voice in the window,
// or steals the voice with the lowest residual energy, breaking ties by the
// oldest trigger and then the lowest index. It returns the voice index and
// whether a sounding voice was stolen; index is -1 before Prepare.
func (p *Pool) TriggerVoice(params Params) (index int, stolen bool) {
	if !p.prepared {
		return -1, false
	}

	index = -1
	for i := range p.window {
		if !p.voices[i].IsActive() {
			index = i
			break
		}
	}

	if index < 0 {
		index = p.stealCandidate()
		stolen = true
		p.voices[index].Reset()
	}

	p.voices[index].Strike(params)
	p.triggeredAt[index] = p.now

	return index, stolen
}

func (p *Pool) stealCandidate() int {
	best := 0
	bestResidual := p.voices[0].Residual()

	for i := 1; i < p.window; i++ {
		r := p.voices[i].Residual()
		switch {
		case math.Abs(r-bestResidual) < residualTie:
			if p.triggeredAt[i] < p.triggeredAt[best] {
				best, bestResidual = i, r
			}
		case r < bestResidual:
			best, bestResidual = i, r
		}
	}

	return best
}

// RenderBlock overwrites out[0] with the sum of all active voices in the
// window and copies it to the remaining channels. Every channel must be at
// least len(out[0]) long.
func (p *Pool) RenderBlock(out [][]float64) {
	if len(out) == 0 {
		return
	}

	dst := out[0]
	clear(dst)

	if p.prepared {
		for i := range p.window {
			v := &p.voices[i]
			if !v.IsActive() {
				continue
			}
			for s := range dst {
				dst[s] += v.RenderNextSample()
			}
		}
	}

	for ch := 1; ch < len(out); ch++ {
		copy(out[ch], dst)
	}

	p.now += int64(len(dst))
}

// UpdateGlobalParameters re-applies timbre to every active voice in the
// window. Pitch, amplitude, waveform and sub-tone mix are kept.
func (p *Pool) UpdateGlobalParameters(metalness, brightness, damping float64) {
	for i := range p.window {
		v := &p.voices[i]
		if !v.IsActive() {
			continue
		}
		params := v.Params()
		params.Metalness = metalness
		params.Brightness = brightness
		params.Damping = damping
		v.SetParameters(params)
	}
}

// ActiveCount returns the number of sounding voices in the window.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.window {
		if p.voices[i].IsActive() {
			n++
		}
	}
	return n
}

// Reset silences every voice and restarts the sample clock.
func (p *Pool) Reset() {
	for i := range p.voices {
		p.voices[i].Reset()
		p.triggeredAt[i] = -1
	}
	p.now = 0
}

// Voice returns voice i for inspection.
func (p *Pool) Voice(i int) *Voice {
	return &p.voices[i]
}

// TriggeredAt returns the sample time voice i was last triggered, or -1.
func (p *Pool) TriggeredAt(i int) int64 {
	return p.triggeredAt[i]
}

// Now returns the number of samples rendered since Prepare or Reset.
func (p *Pool) Now() int64 {
	return p.now
}
