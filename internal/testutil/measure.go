package testutil

import (
	"math"

	"github.com/cwbudde/algo-modal/dsp/core"
)

// RMS returns the root mean square of data, or 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

// Peak returns the largest absolute value in data.
func Peak(data []float64) float64 {
	return core.PeakAbs(data)
}

// WindowedRMS splits data into consecutive windows of size samples and
// returns the RMS of each complete window.
func WindowedRMS(data []float64, size int) []float64 {
	if size <= 0 {
		return nil
	}
	out := make([]float64, 0, len(data)/size)
	for start := 0; start+size <= len(data); start += size {
		out = append(out, RMS(data[start:start+size]))
	}
	return out
}
