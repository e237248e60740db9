package biquad

import "math"

// PoleRadius returns the largest pole magnitude of 1 + A1*z^-1 + A2*z^-2.
func (c *Coefficients) PoleRadius() float64 {
	disc := c.A1*c.A1 - 4*c.A2
	if disc < 0 {
		// Complex-conjugate pair: |p|^2 = A2.
		return math.Sqrt(c.A2)
	}

	s := math.Sqrt(disc)
	return max(math.Abs((-c.A1+s)/2), math.Abs((-c.A1-s)/2))
}

// IsStable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) IsStable() bool {
	// Stability triangle: |A2| < 1 and |A1| < 1 + A2.
	return c.A2 < 1 && c.A2 > -1 && c.A1 < 1+c.A2 && -c.A1 < 1+c.A2
}

// PoleFreq returns the frequency in Hz of the upper pole of a resonant
// section, or 0 when the poles are real.
func (c *Coefficients) PoleFreq(sampleRate float64) float64 {
	disc := c.A1*c.A1 - 4*c.A2
	if disc >= 0 {
		return 0
	}
	theta := math.Atan2(math.Sqrt(-disc), -c.A1)
	return theta * sampleRate / (2 * math.Pi)
}

// RingTime returns how long the free response of the section takes to fall
// by dropDB, in seconds. Unstable sections ring forever (+Inf).
func (c *Coefficients) RingTime(dropDB, sampleRate float64) float64 {
	r := c.PoleRadius()
	if r >= 1 {
		return math.Inf(1)
	}
	if r == 0 {
		return 0
	}
	return dropDB / 20 * math.Ln10 / (-math.Log(r) * sampleRate)
}
