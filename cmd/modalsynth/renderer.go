package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-modal/dsp/buffer"
	"github.com/cwbudde/algo-modal/synth"
)

const (
	outputChannels = 2
	bytesPerSample = 4
)

// renderer pulls blocks from the engine and encodes them as interleaved
// float32 little-endian frames.
type renderer struct {
	engine  *synth.Engine
	frame   *buffer.Frame
	samples []float32
}

func newRenderer(engine *synth.Engine, blockSize int) *renderer {
	return &renderer{
		engine:  engine,
		frame:   buffer.NewFrame(outputChannels, blockSize),
		samples: make([]float32, outputChannels*blockSize),
	}
}

// Read implements io.Reader. It always fills p; a trailing partial frame
// is zeroed.
func (r *renderer) Read(p []byte) (int, error) {
	frameBytes := outputChannels * bytesPerSample
	frames := len(p) / frameBytes

	off := 0
	for frames > 0 {
		n := min(frames, r.frame.Len())
		r.engine.Render(r.frame.Head(n))
		n = r.frame.Interleave(r.samples, n)

		for _, s := range r.samples[:n*outputChannels] {
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(s))
			off += bytesPerSample
		}
		frames -= n
	}

	clear(p[off:])
	return len(p), nil
}

// renderBlock renders one block without encoding it.
func (r *renderer) renderBlock() {
	r.engine.Render(r.frame.Planar())
}
