package core

import (
	"math"
	"sync"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		expected float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, expected: 0},
		{name: "above", value: 2, lo: 0, hi: 1, expected: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, expected: 1},
		{name: "nan", value: math.NaN(), lo: 20, hi: 2000, expected: 20},
		{name: "inf", value: math.Inf(1), lo: 20, hi: 2000, expected: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{1, 4}, {4, 4}, {8, 8}, {12, 12}, {100, 12}} {
		if got := ClampInt(tt.in, 4, 12); got != tt.want {
			t.Fatalf("ClampInt(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	db := LinearToDB(DBToLinear(-6))
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestFlushDenormals(t *testing.T) {
	if FlushDenormals(1e-35) != 0 {
		t.Fatal("expected tiny value to flush to zero")
	}
	if FlushDenormals(1e-3) != 1e-3 {
		t.Fatal("expected normal value to pass through")
	}
}

func TestOnePoleCoefficient(t *testing.T) {
	c := OnePoleCoefficient(0.1, 48000)
	// After tau seconds the state has decayed by 1/e.
	got := math.Pow(c, 4800)
	if !NearlyEqual(got, math.Exp(-1), 1e-9) {
		t.Fatalf("decay after tau = %v, want %v", got, math.Exp(-1))
	}
	if OnePoleCoefficient(0, 48000) != 0 {
		t.Fatal("expected zero coefficient for zero time constant")
	}
}

func TestFloat64Concurrent(t *testing.T) {
	f := NewFloat64(0.25)
	if f.Load() != 0.25 {
		t.Fatalf("Load() = %v, want 0.25", f.Load())
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for range 1000 {
				f.Store(v)
				_ = f.Load()
			}
		}(float64(i))
	}
	wg.Wait()

	got := f.Load()
	if got < 0 || got > 7 || got != math.Trunc(got) {
		t.Fatalf("torn value %v", got)
	}
}

func TestPeakAbs(t *testing.T) {
	if got := PeakAbs([]float64{0.1, -0.7, 0.3}); got != 0.7 {
		t.Fatalf("PeakAbs() = %v, want 0.7", got)
	}
	if PeakAbs(nil) != 0 {
		t.Fatal("expected zero peak for empty buffer")
	}
}

func TestProcessorConfigValidate(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(44100), WithBlockSize(256))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Nyquist() != 22050 {
		t.Fatalf("Nyquist() = %v, want 22050", cfg.Nyquist())
	}

	bad := ProcessorConfig{SampleRate: math.NaN(), BlockSize: 64}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
	bad = ProcessorConfig{SampleRate: 48000}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero block size")
	}
}
