package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/cwbudde/algo-modal/control"
	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/synth"
)

// keyPitches maps the number row to a pentatonic scale from A3.
var keyPitches = map[byte]float64{
	'1': 220.00, '2': 246.94, '3': 277.18, '4': 329.63, '5': 369.99,
	'6': 440.00, '7': 493.88, '8': 554.37, '9': 659.25, '0': 739.99,
}

const keyHelp = "keys: 1-0 strike  p plate  [ ] window  m metalness  w waveform  l limiter  q quit\r\n"

// keyHandler applies one key press. It returns false when the key quits.
type keyHandler struct {
	engine  *synth.Engine
	adapter *control.Adapter
	plateOn bool
}

func (h *keyHandler) handle(b byte) bool {
	if freq, ok := keyPitches[b]; ok {
		h.engine.Strike(freq, 0)
		return true
	}

	switch b {
	case 'q', 3: // Ctrl-C arrives as a byte in raw mode
		return false
	case 'p':
		h.plateOn = !h.plateOn
		amp := 0.0
		if h.plateOn {
			amp = 0.6
		}
		h.adapter.Plate(control.Plate{Freq: 110, Amplitude: amp, Mode: 2})
	case '[':
		h.engine.SetActiveVoiceWindow(h.engine.ActiveVoiceWindow() - 1)
	case ']':
		h.engine.SetActiveVoiceWindow(h.engine.ActiveVoiceWindow() + 1)
	case 'm':
		m := h.engine.Metalness() + 0.1
		if m > 1.05 {
			m = 0
		}
		h.engine.SetMetalness(m)
	case 'w':
		h.engine.SetWaveform(excite.Waveform(int(h.engine.Waveform()+1) % len(excite.Waveforms())))
	case 'l':
		h.engine.SetLimiterEnabled(!h.engine.LimiterEnabled())
	}
	return true
}

func (h *keyHandler) status() string {
	return fmt.Sprintf("\rwindow=%2d metalness=%.1f waveform=%-8s limiter=%-5t voices=%2d level=%6.1f dBFS ",
		h.engine.ActiveVoiceWindow(), h.engine.Metalness(), h.engine.Waveform(),
		h.engine.LimiterEnabled(), h.engine.ActiveVoiceCount(), h.engine.OutputLevelDB())
}

// startKeys puts stdin in raw mode and handles key presses until q. The
// returned channel closes when the user quits or ctx ends; the terminal is
// restored before that.
func startKeys(ctx context.Context, eng *synth.Engine, a *control.Adapter, log zerolog.Logger) (<-chan struct{}, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("interactive mode needs a terminal on stdin")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}

	quit := make(chan struct{})
	keys := make(chan byte)
	h := &keyHandler{engine: eng, adapter: a}

	// The reader blocks in Read and is left behind on exit.
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	go func() {
		defer close(quit)
		defer func() {
			_ = term.Restore(fd, oldState)
			fmt.Fprint(os.Stderr, "\r\n")
		}()

		fmt.Fprint(os.Stderr, keyHelp)
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-keys:
				if !h.handle(b) {
					log.Debug().Msg("quit from keyboard")
					return
				}
				fmt.Fprint(os.Stderr, h.status())
			}
		}
	}()

	return quit, nil
}
