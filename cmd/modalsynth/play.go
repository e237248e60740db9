package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modal/control"
	"github.com/cwbudde/algo-modal/internal/server"
	"github.com/cwbudde/algo-modal/synth"
)

type playOptions struct {
	engine      engineFlags
	listen      string
	origins     []string
	interactive bool
	demo        float64
	duration    time.Duration
	randomPitch bool
}

func newPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Render the synthesizer to the audio device",
		Long: `Open the default audio device and render the engine in real time.

Examples:
  modalsynth play --listen 127.0.0.1:8090
  modalsynth play --interactive
  modalsynth play --demo 4 --duration 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}

	opts.engine.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&opts.listen, "listen", "", "serve the control API on this address")
	fs.StringSliceVar(&opts.origins, "origin", nil, "extra browser origins allowed on /ws")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "strike from the keyboard")
	fs.Float64Var(&opts.demo, "demo", 0, "generate this many random impacts per second")
	fs.DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	fs.BoolVar(&opts.randomPitch, "random-pitch", false, "ignore impact height when picking pitch")

	return cmd
}

func runPlay(parent context.Context, opts playOptions) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	eng, err := opts.engine.newEngine(log)
	if err != nil {
		return err
	}
	adapter := control.NewAdapter(eng,
		control.WithRandomPitch(opts.randomPitch),
		control.WithSeed(opts.engine.seed),
		control.WithLogger(log),
	)

	out, err := newOutput(int(opts.engine.sampleRate), newRenderer(eng, opts.engine.blockSize))
	if err != nil {
		return err
	}
	out.Start()
	defer out.Close()

	log.Info().
		Str("output", out.Name()).
		Float64("sample_rate", opts.engine.sampleRate).
		Int("block", opts.engine.blockSize).
		Msg("audio started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errCh chan error
	if opts.listen != "" {
		errCh = make(chan error, 1)
		srv := server.New(server.Config{Addr: opts.listen, OriginPatterns: opts.origins}, adapter, eng, log)
		go func() {
			errCh <- srv.Run(ctx)
		}()
	}

	if opts.demo > 0 {
		go runDemo(ctx, adapter, opts.demo, opts.engine.seed)
	}

	var quit <-chan struct{}
	if opts.interactive {
		if quit, err = startKeys(ctx, eng, adapter, log); err != nil {
			return err
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
	case <-quit:
	case runErr = <-errCh:
		errCh = nil
	}

	cancel()
	if quit != nil {
		<-quit
	}
	if errCh != nil {
		runErr = <-errCh
	}

	reportStats(log, eng)
	return runErr
}

// runDemo sends Poisson-spaced random impacts and slowly wanders the plate.
func runDemo(ctx context.Context, a *control.Adapter, rate float64, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	id := 0
	for {
		wait := time.Duration(rng.ExpFloat64() / rate * float64(time.Second))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		id++
		a.Impact(control.Impact{ID: id, X: rng.Float64(), Y: rng.Float64(), Energy: 0.3 + 0.7*rng.Float64()})
		a.Plate(control.Plate{Freq: 80 + 40*rng.Float64(), Amplitude: 0.2, Mode: id % 8})
	}
}

func reportStats(log zerolog.Logger, eng *synth.Engine) {
	s := eng.Stats()
	log.Info().
		Uint64("processed", s.Processed).
		Uint64("dropped", s.Dropped).
		Uint64("stolen", s.Stolen).
		Uint64("blocks", s.Blocks).
		Msg("stopped")
}
