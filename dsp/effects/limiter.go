package effects

import (
	"fmt"
	"math"
)

// DefaultLimiterThreshold is the output ceiling used by the engine.
const DefaultLimiterThreshold = 0.95

// HardLimiter scales every sample whose magnitude exceeds the threshold by
// threshold/|x|, pinning it to the ceiling. NaN becomes 0.
type HardLimiter struct {
	threshold float64
	engaged   uint64
}

// NewHardLimiter returns a limiter with the given ceiling in (0, 1].
func NewHardLimiter(threshold float64) (*HardLimiter, error) {
	if !(threshold > 0 && threshold <= 1) {
		return nil, fmt.Errorf("limiter: threshold must be in (0, 1]: %f", threshold)
	}
	return &HardLimiter{threshold: threshold}, nil
}

// Threshold returns the ceiling.
func (l *HardLimiter) Threshold() float64 { return l.threshold }

// Engaged returns how many samples have been limited since construction.
func (l *HardLimiter) Engaged() uint64 { return l.engaged }

// ProcessInPlace limits buf in place.
func (l *HardLimiter) ProcessInPlace(buf []float64) {
	t := l.threshold
	for i, x := range buf {
		switch {
		case math.IsNaN(x):
			buf[i] = 0
			l.engaged++
		case math.Abs(x) > t:
			buf[i] = math.Copysign(t, x)
			l.engaged++
		}
	}
}
