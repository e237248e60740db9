package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/measure/level"
	"github.com/cwbudde/algo-modal/measure/spectrum"
	"github.com/cwbudde/algo-modal/synth"
)

// decayWindow is the RMS window, in seconds, for the decay measurement.
const decayWindow = 0.01

type analyzeOptions struct {
	engine   engineFlags
	strike   synth.TriggerEvent
	waveform string
	duration time.Duration
	fftSize  int
	peaks    int
}

// strikeReport summarizes one rendered strike.
type strikeReport struct {
	Event       synth.TriggerEvent
	SampleRate  float64
	Level       level.Summary
	Decay60     time.Duration // 0 when the tail outlasts the render
	Centroid    float64
	Fundamental float64 // dB relative to the strongest peak
	Peaks       []spectrum.Peak
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{
		strike: synth.TriggerEvent{Freq: 300, Amplitude: 1, Damping: 0.5, Brightness: 0.5, Metalness: 0.5},
	}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Render one strike offline and print its spectrum",
		Long: `Render a single strike without an audio device and report its level,
decay time, spectral centroid and strongest partials.

Examples:
  modalsynth analyze
  modalsynth analyze --freq 440 --metalness 0.9 --peaks 8
  modalsynth analyze --waveform square --sub 0.5 --damping 0.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := excite.ParseWaveform(opts.waveform)
			if err != nil {
				return err
			}
			opts.strike.Waveform = w

			rep, err := analyzeStrike(opts, zerolog.Nop())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}

	opts.engine.register(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&opts.strike.Freq, "freq", opts.strike.Freq, "base frequency in Hz")
	fs.Float64Var(&opts.strike.Amplitude, "amp", opts.strike.Amplitude, "strike amplitude (0-1)")
	fs.Float64Var(&opts.strike.Damping, "damping", opts.strike.Damping, "damping (0-1)")
	fs.Float64Var(&opts.strike.Brightness, "brightness", opts.strike.Brightness, "brightness (0-1)")
	fs.Float64Var(&opts.strike.Metalness, "metalness", opts.strike.Metalness, "metalness (0-1)")
	fs.Float64Var(&opts.strike.SubToneMix, "sub", 0, "sub-tone mix (0-1)")
	fs.StringVar(&opts.waveform, "waveform", excite.Noise.String(), "excitation waveform")
	fs.DurationVar(&opts.duration, "duration", 2*time.Second, "render length")
	fs.IntVar(&opts.fftSize, "fft", 8192, "FFT size (power of two)")
	fs.IntVar(&opts.peaks, "peaks", 6, "number of partials to list")

	return cmd
}

func analyzeStrike(opts analyzeOptions, log zerolog.Logger) (strikeReport, error) {
	eng, err := opts.engine.newEngine(log)
	if err != nil {
		return strikeReport{}, err
	}
	eng.SetPlateVolume(0)

	sr := opts.engine.sampleRate
	analyzer, err := spectrum.NewAnalyzer(opts.fftSize, sr)
	if err != nil {
		return strikeReport{}, err
	}

	total := max(int(opts.duration.Seconds()*sr), opts.fftSize)
	signal := make([]float64, total)

	ev := opts.strike.Clamped()
	eng.EnqueueTrigger(ev)

	block := opts.engine.blockSize
	for start := 0; start < total; start += block {
		eng.Render([][]float64{signal[start:min(start+block, total)]})
	}

	power, err := analyzer.PowerSpectrum(signal)
	if err != nil {
		return strikeReport{}, err
	}

	peaks := analyzer.Peaks(power, opts.peaks)
	rep := strikeReport{
		Event:       ev,
		SampleRate:  sr,
		Level:       level.Summarize(signal),
		Centroid:    analyzer.Centroid(power),
		Peaks:       peaks,
		Fundamental: math.Inf(-1),
	}
	if d, ok := level.DecayTime(signal, int(decayWindow*sr), 60, sr); ok {
		rep.Decay60 = d
	}

	if len(peaks) > 0 {
		tone, err := spectrum.TonePower(signal[:opts.fftSize], ev.Freq, sr)
		if err != nil {
			return strikeReport{}, err
		}
		ref, err := spectrum.TonePower(signal[:opts.fftSize], peaks[0].Freq, sr)
		if err != nil {
			return strikeReport{}, err
		}
		if tone > 0 && ref > 0 {
			rep.Fundamental = 10 * math.Log10(tone/ref)
		}
	}

	return rep, nil
}

func printReport(w io.Writer, rep strikeReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	ev := rep.Event
	fmt.Fprintf(tw, "strike\t%.1f Hz  amp %.2f  damping %.2f  brightness %.2f  metalness %.2f  %s  sub %.2f\n",
		ev.Freq, ev.Amplitude, ev.Damping, ev.Brightness, ev.Metalness, ev.Waveform, ev.SubToneMix)
	fmt.Fprintf(tw, "level\tpeak %.1f dBFS  rms %.1f dBFS  crest %.1f dB\n",
		rep.Level.PeakDB, rep.Level.RMSDB, rep.Level.CrestDB)
	if rep.Decay60 > 0 {
		fmt.Fprintf(tw, "decay -60 dB\t%v\n", rep.Decay60.Round(time.Millisecond))
	} else {
		fmt.Fprintf(tw, "decay -60 dB\tlonger than render\n")
	}
	fmt.Fprintf(tw, "centroid\t%.1f Hz\n", rep.Centroid)
	fmt.Fprintf(tw, "base tone\t%.1f dB\n", rep.Fundamental)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "#\tFreq (Hz)\tRatio\tLevel (dB)")
	fmt.Fprintln(tw, "-\t---------\t-----\t----------")
	for i, p := range rep.Peaks {
		level := 10 * math.Log10(p.Power/rep.Peaks[0].Power)
		fmt.Fprintf(tw, "%d\t%.1f\t%.3f\t%.1f\n", i+1, p.Freq, p.Freq/ev.Freq, level)
	}

	return tw.Flush()
}
