package excite

import (
	"math"
	"math/rand/v2"
)

const (
	// MinBurstSeconds and MaxBurstSeconds bound the strike length. Each
	// trigger picks a length uniformly in between.
	MinBurstSeconds = 0.004
	MaxBurstSeconds = 0.008

	noiseScale = 1.5
)

// MaxBurstSamples returns the buffer length needed at sampleRate.
func MaxBurstSamples(sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}
	return int(math.Ceil(MaxBurstSeconds * sampleRate))
}

// Burst holds one strike excitation and plays it back with a linear fade.
// All memory is allocated by NewBurst.
type Burst struct {
	buf        []float64
	n          int
	pos        int
	sampleRate float64
	rng        *rand.Rand
}

// NewBurst allocates a burst buffer for sampleRate. seed makes the noise
// sequence reproducible.
func NewBurst(sampleRate float64, seed uint64) *Burst {
	return &Burst{
		buf:        make([]float64, MaxBurstSamples(sampleRate)),
		sampleRate: sampleRate,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Rand exposes the burst's random source so the owning voice can draw its
// detune from the same reproducible stream.
func (b *Burst) Rand() *rand.Rand {
	return b.rng
}

// Generate writes a new strike of shape w at pitch freq and rewinds playback.
func (b *Burst) Generate(w Waveform, freq float64) {
	if len(b.buf) == 0 {
		b.n, b.pos = 0, 0
		return
	}

	length := MinBurstSeconds + b.rng.Float64()*(MaxBurstSeconds-MinBurstSeconds)
	n := min(max(int(length*b.sampleRate), 1), len(b.buf))
	b.n = n
	b.pos = 0

	phaseInc := freq / b.sampleRate
	if phaseInc <= 0 || math.IsNaN(phaseInc) {
		phaseInc = 0
	}

	switch w {
	case Noise:
		prev := 0.0
		for i := range n {
			r := 2*b.rng.Float64() - 1
			b.buf[i] = (r - prev) * 0.5
			prev = r
		}
	case Click:
		clear(b.buf[:n])
		width := min(2+b.rng.IntN(3), n)
		for i := range width {
			b.buf[i] = 1 - float64(i)/float64(width)
		}
		return
	case Sine:
		// A single period across the burst: a soft, pitchless thump.
		for i := range n {
			b.buf[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
		}
	case Pulse:
		clear(b.buf[:n])
		period := n
		if phaseInc > 0 {
			period = max(int(1/phaseInc), 4)
		}
		sign := 1.0
		for i := 0; i < n; i += period {
			b.buf[i] = sign
			if i+1 < n {
				b.buf[i+1] = sign * 0.5
			}
			sign = -sign
		}
	default:
		// Starting at a random phase keeps repeated strikes from sounding
		// identical.
		phase := b.rng.Float64()
		for i := range n {
			b.buf[i] = Shape(w, phase)
			phase += phaseInc
			phase -= math.Floor(phase)
		}
	}

	// Quadratic taper so the burst ends without a step.
	for i := range n {
		t := 1 - float64(i)/float64(n)
		b.buf[i] *= t * t * noiseScale
	}
}

// Next returns the next excitation sample with a linear fade across the
// burst, or 0 once the burst is finished.
func (b *Burst) Next() float64 {
	if b.pos >= b.n {
		return 0
	}
	x := b.buf[b.pos] * (1 - float64(b.pos)/float64(b.n))
	b.pos++
	return x
}

// Active reports whether samples remain.
func (b *Burst) Active() bool {
	return b.pos < b.n
}

// Len returns the length of the current burst in samples.
func (b *Burst) Len() int {
	return b.n
}

// Stop ends playback immediately.
func (b *Burst) Stop() {
	b.pos = b.n
}

// Shape evaluates a periodic waveform at phase in [0, 1). Broadband shapes
// evaluate as a square.
func Shape(w Waveform, phase float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Saw:
		return 2*phase - 1
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		if phase < 0.5 {
			return 1
		}
		return -1
	}
}
