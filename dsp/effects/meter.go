package effects

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
)

// DefaultMeterTime is the time constant of the level meter in seconds.
const DefaultMeterTime = 0.1

// LevelMeter tracks an exponential moving average of the squared signal.
type LevelMeter struct {
	coeff      float64
	meanSquare float64
}

// NewLevelMeter returns a meter with time constant tau seconds.
func NewLevelMeter(tau, sampleRate float64) *LevelMeter {
	return &LevelMeter{coeff: core.OnePoleCoefficient(tau, sampleRate)}
}

// Process feeds a block into the meter.
func (m *LevelMeter) Process(buf []float64) {
	c := m.coeff
	ms := m.meanSquare
	for _, x := range buf {
		ms = c*ms + (1-c)*x*x
	}
	m.meanSquare = core.FlushDenormals(ms)
}

// MeanSquare returns the smoothed mean square.
func (m *LevelMeter) MeanSquare() float64 { return m.meanSquare }

// RMS returns the smoothed RMS level.
func (m *LevelMeter) RMS() float64 { return math.Sqrt(m.meanSquare) }

// Reset clears the meter.
func (m *LevelMeter) Reset() { m.meanSquare = 0 }
