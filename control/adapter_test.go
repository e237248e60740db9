package control

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/synth"
)

type recordingTarget struct {
	*synth.Engine

	mu     sync.Mutex
	events []synth.TriggerEvent
	plates []Plate
	full   bool
}

func newRecordingTarget(t *testing.T) *recordingTarget {
	t.Helper()
	eng, err := synth.New()
	require.NoError(t, err)
	return &recordingTarget{Engine: eng}
}

func (r *recordingTarget) EnqueueTrigger(ev synth.TriggerEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return false
	}
	r.events = append(r.events, ev)
	return true
}

func (r *recordingTarget) TriggerPlate(freq, amplitude float64, mode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plates = append(r.plates, Plate{Freq: freq, Amplitude: amplitude, Mode: mode})
}

func TestImpactMapping(t *testing.T) {
	tests := []struct {
		name   string
		impact Impact
		want   synth.TriggerEvent
	}{
		{
			name:   "top full energy",
			impact: Impact{Y: 1, Energy: 1},
			want:   synth.TriggerEvent{Freq: 600, Amplitude: 1, Damping: 0.2, Brightness: 1},
		},
		{
			name:   "bottom silent",
			impact: Impact{Y: 0, Energy: 0},
			want:   synth.TriggerEvent{Freq: 200, Amplitude: 0, Damping: 0.8, Brightness: 0.3},
		},
		{
			name:   "middle",
			impact: Impact{Y: 0.5, Energy: 0.25},
			want:   synth.TriggerEvent{Freq: 400, Amplitude: 0.125, Damping: 0.5, Brightness: 0.475},
		},
		{
			name:   "out of range clamps",
			impact: Impact{Y: 3, Energy: -2},
			want:   synth.TriggerEvent{Freq: 600, Amplitude: 0, Damping: 0.2, Brightness: 0.3},
		},
	}

	target := newRecordingTarget(t)
	target.SetMetalness(0.8)
	target.SetWaveform(excite.Saw)
	target.SetSubToneMix(0.25)
	a := NewAdapter(target)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ImpactEvent(tt.impact)
			assert.InDelta(t, tt.want.Freq, got.Freq, 1e-9)
			assert.InDelta(t, tt.want.Amplitude, got.Amplitude, 1e-9)
			assert.InDelta(t, tt.want.Damping, got.Damping, 1e-9)
			assert.InDelta(t, tt.want.Brightness, got.Brightness, 1e-9)
			assert.Equal(t, 0.8, got.Metalness)
			assert.Equal(t, excite.Saw, got.Waveform)
			assert.Equal(t, 0.25, got.SubToneMix)
		})
	}
}

func TestRandomPitchStaysInRange(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target, WithRandomPitch(true), WithSeed(9))
	require.True(t, a.RandomPitch())

	seen := map[float64]bool{}
	for range 200 {
		ev := a.ImpactEvent(Impact{Y: 0.5, Energy: 1})
		assert.GreaterOrEqual(t, ev.Freq, BasePitch)
		assert.Less(t, ev.Freq, BasePitch+PitchRange)
		assert.InDelta(t, 0.5, ev.Damping, 1e-12, "damping still follows y")
		seen[ev.Freq] = true
	}
	assert.Greater(t, len(seen), 100)

	a.SetRandomPitch(false)
	assert.Equal(t, 400.0, a.ImpactEvent(Impact{Y: 0.5}).Freq)
}

func TestRandomPitchIsSeeded(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target, WithRandomPitch(true), WithSeed(3))
	b := NewAdapter(target, WithRandomPitch(true), WithSeed(3))
	for range 10 {
		assert.Equal(t, a.ImpactEvent(Impact{}).Freq, b.ImpactEvent(Impact{}).Freq)
	}
}

func TestImpactEnqueuesAndCountsDrops(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target)

	assert.True(t, a.Impact(Impact{ID: 1, Y: 0.25, Energy: 1}))
	require.Len(t, target.events, 1)
	assert.InDelta(t, 300, target.events[0].Freq, 1e-9)

	target.full = true
	assert.False(t, a.Impact(Impact{ID: 2}))
	assert.False(t, a.Impact(Impact{ID: 3}))

	c := a.Counters()
	assert.Equal(t, uint64(3), c.Impacts)
	assert.Equal(t, uint64(2), c.DroppedImpacts)
}

func TestStateMapping(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target)

	a.State(State{Activity: 0.3, Gesture: 0.9, Presence: 0.6})
	assert.Equal(t, 0.3, target.Drive())
	assert.Equal(t, 0.9, target.Brightness())
	assert.Equal(t, 0.6, target.MasterGain())

	a.State(State{Activity: 7, Gesture: -1, Presence: math.NaN()})
	assert.Equal(t, 1.0, target.Drive())
	assert.Equal(t, 0.0, target.Brightness())
	assert.Equal(t, 0.0, target.MasterGain())
	assert.Equal(t, uint64(2), a.Counters().States)
}

func TestPlateForwards(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target)

	a.Plate(Plate{Freq: 300, Amplitude: 0.5, Mode: 3})
	require.Len(t, target.plates, 1)
	assert.Equal(t, Plate{Freq: 300, Amplitude: 0.5, Mode: 3}, target.plates[0])
	assert.Equal(t, uint64(1), a.Counters().Plates)
}

func TestApplySettingsFromJSON(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target)

	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{
		"metalness": 0.9,
		"damping": 0.1,
		"waveform": "triangle",
		"plateVolume": 0.2,
		"limiter": false,
		"voiceWindow": 20,
		"randomPitch": true
	}`), &s))
	a.Apply(s)

	assert.Equal(t, 0.9, target.Metalness())
	assert.Equal(t, 0.1, target.Damping())
	assert.Equal(t, excite.Triangle, target.Waveform())
	assert.Equal(t, 0.2, target.PlateVolume())
	assert.False(t, target.LimiterEnabled())
	assert.Equal(t, 12, target.ActiveVoiceWindow())
	assert.True(t, a.RandomPitch())

	// untouched fields keep their defaults
	assert.Equal(t, 0.5, target.Brightness())
	assert.Equal(t, 1.0, target.MasterGain())
}

func TestSettingsRejectUnknownWaveform(t *testing.T) {
	var s Settings
	assert.Error(t, json.Unmarshal([]byte(`{"waveform":"kazoo"}`), &s))
}

func TestAdapterConcurrentUse(t *testing.T) {
	target := newRecordingTarget(t)
	a := NewAdapter(target, WithRandomPitch(true))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				a.Impact(Impact{ID: i, Energy: 0.5})
				a.State(State{Activity: 0.1})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, target.events, 800)
	assert.Equal(t, uint64(800), a.Counters().States)
}
