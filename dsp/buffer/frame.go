package buffer

// Frame is planar multi-channel audio backed by one allocation.
type Frame struct {
	data     []float64
	channels [][]float64
	view     [][]float64
	length   int
}

// NewFrame returns a zeroed frame with the given channel count and length.
// Negative sizes are treated as zero.
func NewFrame(channels, length int) *Frame {
	channels = max(channels, 0)
	length = max(length, 0)

	f := &Frame{
		data:     make([]float64, channels*length),
		channels: make([][]float64, channels),
		view:     make([][]float64, channels),
		length:   length,
	}
	for ch := range f.channels {
		f.channels[ch] = f.data[ch*length : (ch+1)*length : (ch+1)*length]
	}

	return f
}

// Channels returns the channel count.
func (f *Frame) Channels() int { return len(f.channels) }

// Len returns the samples per channel.
func (f *Frame) Len() int { return f.length }

// Channel returns channel ch.
func (f *Frame) Channel(ch int) []float64 { return f.channels[ch] }

// Planar returns all channels. The outer slice is owned by the frame.
func (f *Frame) Planar() [][]float64 { return f.channels }

// Head returns the first n samples of every channel without allocating. The
// returned outer slice is reused by the next Head call.
func (f *Frame) Head(n int) [][]float64 {
	n = min(max(n, 0), f.length)
	for ch, samples := range f.channels {
		f.view[ch] = samples[:n]
	}

	return f.view
}

// Zero clears every sample.
func (f *Frame) Zero() { clear(f.data) }

// Interleave writes the first n samples of every channel to dst as float32
// frames (L R L R ...). n is capped by Len and by len(dst)/Channels. It
// returns the number of frames written.
func (f *Frame) Interleave(dst []float32, n int) int {
	chs := len(f.channels)
	if chs == 0 {
		return 0
	}

	n = min(n, f.length, len(dst)/chs)
	for i := range n {
		for ch, samples := range f.channels {
			dst[i*chs+ch] = float32(samples[i])
		}
	}

	return n
}
