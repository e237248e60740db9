package spectrum

import (
	"fmt"
	"math"
	"sort"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer computes Hann-windowed power spectra of a fixed frame size.
// Buffers and the FFT plan are allocated once; an Analyzer is not safe for
// concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64

	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re, im []float64
	power  []float64
}

// Peak is one local maximum of a power spectrum.
type Peak struct {
	Bin   int
	Freq  float64
	Power float64
}

// NewAnalyzer returns an analyzer for frames of size samples. size must be a
// power of two of at least 16.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 16 || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum: frame size must be a power of two >= 16: %d", size)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0 and finite: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	a := &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		window:     make([]float64, size),
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		power:      make([]float64, bins),
	}

	for i := range a.window {
		a.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size-1))
	}

	return a, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// BinFreq returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFreq(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.size)
}

// PowerSpectrum windows the first Size() samples of signal (zero-padded if
// shorter) and returns |X[k]|^2 for k in [0, Size()/2]. The returned slice
// is owned by the analyzer and overwritten by the next call.
func (a *Analyzer) PowerSpectrum(signal []float64) ([]float64, error) {
	n := min(len(signal), a.size)
	clear(a.frame)
	copy(a.frame, signal[:n])
	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	vecmath.Power(a.power, a.re, a.im)

	return a.power, nil
}

// Peaks returns up to n local maxima of power, strongest first. Bins at the
// edges are never reported.
func (a *Analyzer) Peaks(power []float64, n int) []Peak {
	var peaks []Peak
	for k := 1; k+1 < len(power); k++ {
		if power[k] > power[k-1] && power[k] >= power[k+1] && power[k] > 0 {
			peaks = append(peaks, Peak{Bin: k, Freq: a.interpolatedFreq(power, k), Power: power[k]})
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Power > peaks[j].Power })
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}

// interpolatedFreq refines a peak location with a parabolic fit on the log
// power of the neighbouring bins.
func (a *Analyzer) interpolatedFreq(power []float64, k int) float64 {
	l, c, r := power[k-1], power[k], power[k+1]
	if l <= 0 || r <= 0 {
		return a.BinFreq(k)
	}

	ll, lc, lr := math.Log(l), math.Log(c), math.Log(r)
	den := ll - 2*lc + lr
	if den == 0 {
		return a.BinFreq(k)
	}

	delta := 0.5 * (ll - lr) / den
	return (float64(k) + delta) * a.sampleRate / float64(a.size)
}

// Centroid returns the power-weighted mean frequency of power, or 0 for a
// silent spectrum.
func (a *Analyzer) Centroid(power []float64) float64 {
	var num, den float64
	for k, p := range power {
		num += a.BinFreq(k) * p
		den += p
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Dominant returns the strongest peak and false if there is none.
func (a *Analyzer) Dominant(power []float64) (Peak, bool) {
	peaks := a.Peaks(power, 1)
	if len(peaks) == 0 {
		return Peak{}, false
	}
	return peaks[0], true
}
