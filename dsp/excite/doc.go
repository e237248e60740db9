// Package excite generates the short strike bursts that set the modal voices
// ringing, and the sub-tone oscillator mixed under them.
package excite
