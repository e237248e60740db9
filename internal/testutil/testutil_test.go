package testutil

import (
	"math"
	"testing"
	"time"
)

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("index %d out of range: %v", i, a[i])
		}
	}
}

func TestImpulse(t *testing.T) {
	x := Impulse(4, 2)
	if x[2] != 1 || x[0] != 0 {
		t.Fatalf("Impulse = %v", x)
	}
	if Peak(Impulse(4, 9)) != 0 {
		t.Fatal("out-of-range impulse should be silent")
	}
}

func TestRMSAndWindows(t *testing.T) {
	sine := DeterministicSine(1000, 48000, 1, 48000)
	if got := RMS(sine); math.Abs(got-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("RMS = %v, want %v", got, 1/math.Sqrt2)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) should be 0")
	}
	w := WindowedRMS(make([]float64, 10), 3)
	if len(w) != 3 {
		t.Fatalf("len(WindowedRMS) = %d, want 3", len(w))
	}
	if WindowedRMS(sine, 0) != nil {
		t.Fatal("zero window should return nil")
	}
}

func TestClock(t *testing.T) {
	c := NewClock(time.Second)
	c.Advance(500 * time.Millisecond)
	if c.Now() != 1500*time.Millisecond {
		t.Fatalf("Now() = %v", c.Now())
	}
}
