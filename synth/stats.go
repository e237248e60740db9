package synth

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
)

// Stats is a snapshot of engine counters. Counters are cumulative since New.
type Stats struct {
	Enqueued       uint64  `json:"enqueued"`
	Dropped        uint64  `json:"dropped"`
	Processed      uint64  `json:"processed"`
	Stolen         uint64  `json:"stolen"`
	Blocks         uint64  `json:"blocks"`
	Pending        int     `json:"pending"`
	ActiveVoices   int     `json:"activeVoices"`
	VoiceWindow    int     `json:"voiceWindow"`
	OutputLevel    float64 `json:"outputLevel"`
	LimiterEnabled bool    `json:"limiterEnabled"`
	PlateTimedOut  bool    `json:"plateTimedOut"`
}

// ActiveVoiceCount returns the number of sounding voices after the last
// rendered block.
func (e *Engine) ActiveVoiceCount() int {
	return int(e.activeCount.Load())
}

// OutputLevel returns the smoothed RMS output level (100 ms time constant)
// after the last rendered block.
func (e *Engine) OutputLevel() float64 {
	return math.Sqrt(e.meanSquare.Load())
}

// OutputLevelDB returns OutputLevel in dBFS; -Inf for silence.
func (e *Engine) OutputLevelDB() float64 {
	return core.LinearToDB(e.OutputLevel())
}

// Stats returns a snapshot of the engine counters. Safe from any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		Enqueued:       e.inbox.Pushed(),
		Dropped:        e.inbox.Dropped(),
		Processed:      e.processed.Load(),
		Stolen:         e.stolen.Load(),
		Blocks:         e.blocks.Load(),
		Pending:        e.inbox.Len(),
		ActiveVoices:   e.ActiveVoiceCount(),
		VoiceWindow:    e.ActiveVoiceWindow(),
		OutputLevel:    e.OutputLevel(),
		LimiterEnabled: e.LimiterEnabled(),
		PlateTimedOut:  e.plate.TimedOut(),
	}
}
