// Command modalsynth runs the modal synthesizer.
//
// Usage:
//
//	modalsynth play [flags]
//	modalsynth analyze [flags]
//
// play opens the default audio device and renders the engine in real time.
// Strikes arrive over the control server (--listen), from the keyboard
// (--interactive) or from the built-in demo (--demo). analyze renders one
// strike offline and prints its spectral peaks.
//
// Examples:
//
//	modalsynth play --listen 127.0.0.1:8090
//	modalsynth play --interactive --window 12
//	modalsynth play --demo 4 --duration 30s
//	modalsynth analyze --freq 440 --metalness 0.9 --peaks 8
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-modal/internal/logging"
)

var version = "0.1.0"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "modalsynth",
	Short: "Polyphonic modal synthesizer",
	Long: `modalsynth turns impact events and a plate excitation stream into
sound with a pool of modal resonator voices.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "log format (console, json)")

	rootCmd.AddCommand(newPlayCmd(), newAnalyzeCmd())
}

func newLogger() (zerolog.Logger, error) {
	return logging.New(logging.Config{Level: logLevel, Format: logFormat})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
