package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modal/dsp/core"
	"github.com/cwbudde/algo-modal/dsp/modal"
	"github.com/cwbudde/algo-modal/dsp/plate"
	"github.com/cwbudde/algo-modal/synth"
)

// engineFlags are shared by every command that builds an engine.
type engineFlags struct {
	sampleRate   float64
	blockSize    int
	window       int
	inbox        int
	seed         uint64
	plateTimeout time.Duration
}

func (f *engineFlags) register(cmd *cobra.Command) {
	defaults := core.DefaultProcessorConfig()

	fs := cmd.Flags()
	fs.Float64Var(&f.sampleRate, "sample-rate", defaults.SampleRate, "sample rate in Hz")
	fs.IntVar(&f.blockSize, "block", defaults.BlockSize, "frames rendered per block")
	fs.IntVar(&f.window, "window", modal.DefaultWindow, "active voice window (4-12)")
	fs.IntVar(&f.inbox, "inbox", synth.DefaultInboxCapacity, "trigger inbox capacity")
	fs.Uint64Var(&f.seed, "seed", 1, "random seed")
	fs.DurationVar(&f.plateTimeout, "plate-timeout", plate.DefaultTimeout, "silence the plate after this long without updates")
}

func (f *engineFlags) newEngine(log zerolog.Logger) (*synth.Engine, error) {
	eng, err := synth.New(
		synth.WithMaxBlockSize(f.blockSize),
		synth.WithInboxCapacity(f.inbox),
		synth.WithVoiceWindow(f.window),
		synth.WithPlateTimeout(f.plateTimeout),
		synth.WithSeed(f.seed),
		synth.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := eng.Prepare(f.sampleRate); err != nil {
		return nil, err
	}
	return eng, nil
}
