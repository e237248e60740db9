// Package effects provides the master-bus processors applied after the voice
// and plate mix: drive-controlled soft saturation, a hard output ceiling and
// an exponential RMS level meter.
//
// All processors are single-goroutine, allocation-free and never fail on
// the render path. Setters clamp.
package effects
