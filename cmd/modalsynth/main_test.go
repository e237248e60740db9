package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-modal/control"
	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/synth"
)

func testEngineFlags() engineFlags {
	return engineFlags{
		sampleRate:   48000,
		blockSize:    64,
		window:       8,
		inbox:        synth.DefaultInboxCapacity,
		seed:         1,
		plateTimeout: time.Second,
	}
}

func TestRendererEncodesInterleavedFloat32(t *testing.T) {
	flags := testEngineFlags()
	eng, err := flags.newEngine(zerolog.Nop())
	if err != nil {
		t.Fatalf("newEngine error = %v", err)
	}
	eng.Strike(330, 1)

	r := newRenderer(eng, flags.blockSize)
	p := make([]byte, 1003)
	for i := range p {
		p[i] = 0xff
	}

	n, err := r.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read = %d, %v; want %d, nil", n, err, len(p))
	}

	frames := len(p) / (outputChannels * bytesPerSample)
	var peak float64
	for i := range frames {
		l := math.Float32frombits(binary.LittleEndian.Uint32(p[i*8:]))
		right := math.Float32frombits(binary.LittleEndian.Uint32(p[i*8+4:]))
		if l != right {
			t.Fatalf("frame %d: left %v != right %v", i, l, right)
		}
		peak = max(peak, math.Abs(float64(l)))
	}
	if peak == 0 || peak > 0.95 {
		t.Fatalf("peak = %v, want (0, 0.95]", peak)
	}
	if !bytes.Equal(p[frames*8:], []byte{0, 0, 0}) {
		t.Fatalf("partial frame not zeroed: %v", p[frames*8:])
	}
	if got := eng.Stats().Blocks; got != 2 {
		t.Fatalf("Blocks = %d, want 2 (125 frames in 64-frame blocks)", got)
	}
}

func TestAnalyzeFindsBaseFrequency(t *testing.T) {
	opts := analyzeOptions{
		engine:   testEngineFlags(),
		strike:   synth.TriggerEvent{Freq: 440, Amplitude: 0.5, Damping: 0.5, Brightness: 0.5},
		duration: time.Second,
		fftSize:  8192,
		peaks:    4,
	}

	rep, err := analyzeStrike(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("analyzeStrike error = %v", err)
	}
	if len(rep.Peaks) == 0 {
		t.Fatal("no peaks found")
	}
	if got := rep.Peaks[0].Freq; math.Abs(got-440) > 15 {
		t.Fatalf("dominant peak = %.1f Hz, want near 440", got)
	}
	if rep.Decay60 <= 0 || rep.Decay60 >= time.Second {
		t.Fatalf("Decay60 = %v, want within the render", rep.Decay60)
	}
	if db := rep.Level.PeakDB; math.IsInf(db, 0) || db > 0 {
		t.Fatalf("PeakDB = %v", db)
	}
}

func TestAnalyzeMetalnessAddsInharmonicPartial(t *testing.T) {
	opts := analyzeOptions{
		engine:   testEngineFlags(),
		strike:   synth.TriggerEvent{Freq: 200, Amplitude: 0.5, Damping: 0.3, Brightness: 0.8, Metalness: 1},
		duration: time.Second,
		fftSize:  8192,
		peaks:    12,
	}

	rep, err := analyzeStrike(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("analyzeStrike error = %v", err)
	}

	found := false
	for _, p := range rep.Peaks {
		if r := p.Freq / 200; r > 2.6 && r < 2.95 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no partial near 2.76x among %+v", rep.Peaks)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	cmd := newAnalyzeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--freq", "440", "--duration", "500ms", "--peaks", "3", "--waveform", "sine"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"strike", "440.0 Hz", "sine", "centroid", "Freq (Hz)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	tests := [][]string{
		{"--waveform", "kazoo"},
		{"--fft", "1000"},
		{"--sample-rate", "0"},
	}
	for _, args := range tests {
		cmd := newAnalyzeCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("Execute(%v) succeeded, want error", args)
		}
	}
}

func TestKeyHandler(t *testing.T) {
	eng, err := synth.New()
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	a := control.NewAdapter(eng)
	h := &keyHandler{engine: eng, adapter: a}

	for _, b := range []byte("159") {
		if !h.handle(b) {
			t.Fatalf("handle(%q) quit", b)
		}
	}
	if got := eng.Stats().Enqueued; got != 3 {
		t.Fatalf("Enqueued = %d, want 3", got)
	}

	h.handle('[')
	if got := eng.ActiveVoiceWindow(); got != 7 {
		t.Fatalf("window = %d, want 7", got)
	}

	h.handle('p')
	if !h.plateOn || a.Counters().Plates != 1 {
		t.Fatal("plate key did not toggle the plate")
	}

	eng.SetWaveform(excite.Pulse)
	h.handle('w')
	if eng.Waveform() != excite.Noise {
		t.Fatalf("waveform after wrap = %v, want noise", eng.Waveform())
	}

	eng.SetMetalness(1)
	h.handle('m')
	if eng.Metalness() != 0 {
		t.Fatalf("metalness after wrap = %v, want 0", eng.Metalness())
	}

	if h.handle('q') || h.handle(3) {
		t.Fatal("quit keys did not quit")
	}
	if !strings.Contains(h.status(), "window= 7") {
		t.Fatalf("status = %q", h.status())
	}
}
