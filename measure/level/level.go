// Package level computes amplitude statistics and decay times of rendered
// audio.
package level

import (
	"math"
	"time"

	"github.com/cwbudde/algo-modal/dsp/core"
)

// Summary holds time-domain level statistics of a signal.
type Summary struct {
	Length        int
	DC            float64 // mean
	Peak          float64 // max |x|
	PeakPos       int
	PeakDB        float64
	RMS           float64
	RMSDB         float64
	CrestFactor   float64 // peak / RMS
	CrestDB       float64
	ZeroCrossings int
}

// Summarize computes every Summary field in one pass. dB fields are -Inf for
// a silent or empty signal.
func Summarize(signal []float64) Summary {
	s := Summary{
		Length:  len(signal),
		PeakDB:  math.Inf(-1),
		RMSDB:   math.Inf(-1),
		CrestDB: math.Inf(-1),
	}
	if len(signal) == 0 {
		return s
	}

	// Kahan-compensated mean.
	var sum, c, sumSq float64
	for i, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += x * x

		if a := math.Abs(x); a > s.Peak {
			s.Peak = a
			s.PeakPos = i
		}
		if i > 0 && signal[i-1]*x < 0 {
			s.ZeroCrossings++
		}
	}

	n := float64(len(signal))
	s.DC = sum / n
	s.RMS = math.Sqrt(sumSq / n)
	s.PeakDB = core.LinearToDB(s.Peak)
	s.RMSDB = core.LinearToDB(s.RMS)
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
		s.CrestDB = core.LinearToDB(s.CrestFactor)
	}

	return s
}

// Envelope returns the RMS of consecutive windows of the given length. A
// trailing partial window is measured over its own length.
func Envelope(signal []float64, window int) []float64 {
	if window <= 0 || len(signal) == 0 {
		return nil
	}

	env := make([]float64, 0, (len(signal)+window-1)/window)
	for start := 0; start < len(signal); start += window {
		chunk := signal[start:min(start+window, len(signal))]
		var sumSq float64
		for _, x := range chunk {
			sumSq += x * x
		}
		env = append(env, math.Sqrt(sumSq/float64(len(chunk))))
	}

	return env
}

// DecayTime returns the time from the start of signal until its windowed RMS
// first falls dropDB below its maximum, measured at the end of that window.
// It reports false when the signal is silent or never decays that far.
func DecayTime(signal []float64, window int, dropDB, sampleRate float64) (time.Duration, bool) {
	env := Envelope(signal, window)

	peak, peakAt := 0.0, -1
	for i, v := range env {
		if v > peak {
			peak, peakAt = v, i
		}
	}
	if peakAt < 0 || sampleRate <= 0 {
		return 0, false
	}

	floor := peak * core.DBToLinear(-math.Abs(dropDB))
	for i := peakAt + 1; i < len(env); i++ {
		if env[i] < floor {
			end := min((i+1)*window, len(signal))
			return time.Duration(float64(end) / sampleRate * float64(time.Second)), true
		}
	}

	return 0, false
}
