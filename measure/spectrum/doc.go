// Package spectrum provides offline spectral measurements of rendered audio:
// windowed FFT power spectra, peak picking, spectral centroid and
// single-frequency Goertzel probes.
//
// It is used by the analyze command and by tests that check the pitch and
// timbre of struck voices. It is not meant for the render goroutine.
package spectrum
