package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
)

const maxSaturatorPregain = 10.0

// Saturator blends the dry signal with a tanh-shaped copy of itself. Drive 0
// is a bypass; drive 1 is fully wet with 10x pregain.
type Saturator struct {
	drive   float64
	pregain float64
}

// NewSaturator returns a saturator with drive in [0, 1].
func NewSaturator(drive float64) (*Saturator, error) {
	if drive < 0 || drive > 1 || math.IsNaN(drive) {
		return nil, fmt.Errorf("saturator: drive must be in [0, 1]: %f", drive)
	}
	s := &Saturator{}
	s.SetDrive(drive)
	return s, nil
}

// SetDrive sets the drive, clamped to [0, 1].
func (s *Saturator) SetDrive(drive float64) {
	s.drive = core.Clamp01(drive)
	s.pregain = 1 + (maxSaturatorPregain-1)*s.drive
}

// Drive returns the current drive.
func (s *Saturator) Drive() float64 { return s.drive }

// ProcessSample shapes one sample.
func (s *Saturator) ProcessSample(x float64) float64 {
	if s.drive == 0 {
		return x
	}
	return (1-s.drive)*x + s.drive*math.Tanh(s.pregain*x)
}

// ProcessInPlace shapes buf in place.
func (s *Saturator) ProcessInPlace(buf []float64) {
	if s.drive == 0 {
		return
	}
	for i, x := range buf {
		buf[i] = (1-s.drive)*x + s.drive*math.Tanh(s.pregain*x)
	}
}
