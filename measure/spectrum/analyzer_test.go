package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modal/internal/testutil"
)

func TestNewAnalyzerValidation(t *testing.T) {
	for _, size := range []int{0, 8, 100, 1000} {
		if _, err := NewAnalyzer(size, 48000); err == nil {
			t.Fatalf("NewAnalyzer(%d) expected error", size)
		}
	}
	if _, err := NewAnalyzer(1024, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestAnalyzerFindsSinePeak(t *testing.T) {
	const sr = 48000.0
	a, err := NewAnalyzer(8192, sr)
	if err != nil {
		t.Fatalf("NewAnalyzer error = %v", err)
	}

	sig := testutil.DeterministicSine(440, sr, 0.5, 8192)
	power, err := a.PowerSpectrum(sig)
	if err != nil {
		t.Fatalf("PowerSpectrum error = %v", err)
	}
	if len(power) != 4097 {
		t.Fatalf("len(power) = %d, want 4097", len(power))
	}

	peak, ok := a.Dominant(power)
	if !ok {
		t.Fatal("no peak found")
	}
	if math.Abs(peak.Freq-440) > 2 {
		t.Fatalf("peak at %.2f Hz, want 440", peak.Freq)
	}
}

func TestAnalyzerPeaksOrderedByPower(t *testing.T) {
	const sr = 48000.0
	a, _ := NewAnalyzer(4096, sr)

	lo := testutil.DeterministicSine(500, sr, 1, 4096)
	hi := testutil.DeterministicSine(3000, sr, 0.25, 4096)
	for i := range lo {
		lo[i] += hi[i]
	}

	power, _ := a.PowerSpectrum(lo)
	peaks := a.Peaks(power, 2)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2", len(peaks))
	}
	if math.Abs(peaks[0].Freq-500) > 10 || math.Abs(peaks[1].Freq-3000) > 10 {
		t.Fatalf("peaks = %+v", peaks)
	}
}

func TestCentroidRisesWithHighContent(t *testing.T) {
	const sr = 48000.0
	a, _ := NewAnalyzer(2048, sr)

	low := testutil.DeterministicSine(300, sr, 1, 2048)
	powLow, _ := a.PowerSpectrum(low)
	cLow := a.Centroid(powLow)

	high := testutil.DeterministicSine(5000, sr, 1, 2048)
	powHigh, _ := a.PowerSpectrum(high)
	cHigh := a.Centroid(powHigh)

	if !(cHigh > cLow) {
		t.Fatalf("centroid %v (5 kHz) not above %v (300 Hz)", cHigh, cLow)
	}
	if a.Centroid(make([]float64, 10)) != 0 {
		t.Fatal("silent spectrum should have zero centroid")
	}
}

func TestPowerSpectrumZeroPadsShortInput(t *testing.T) {
	a, _ := NewAnalyzer(256, 48000)
	power, err := a.PowerSpectrum([]float64{1})
	if err != nil {
		t.Fatalf("PowerSpectrum error = %v", err)
	}
	testutil.RequireFinite(t, power)
}

func TestGoertzelMatchesDFT(t *testing.T) {
	const sr = 48000.0
	sig := testutil.DeterministicSine(1000, sr, 1, 960)

	got, err := TonePower(sig, 1000, sr)
	if err != nil {
		t.Fatalf("TonePower error = %v", err)
	}

	var re, im float64
	for n, x := range sig {
		angle := -2 * math.Pi * 1000 / sr * float64(n)
		re += x * math.Cos(angle)
		im += x * math.Sin(angle)
	}
	want := re*re + im*im
	if math.Abs(got-want) > 1e-6*want {
		t.Fatalf("Power = %v, want %v", got, want)
	}

	if _, err := NewGoertzel(30000, sr); err == nil {
		t.Fatal("expected error above Nyquist")
	}
}
