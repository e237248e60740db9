// Package modal implements struck modal voices and the fixed-capacity pool
// that allocates and steals them.
//
// A [Voice] is a bank of [NumModes] resonant band-pass modes tuned to an
// inharmonic series, excited by a short burst and shaped by an exponential
// envelope. A [Pool] owns [Capacity] voices for the lifetime of the engine
// and only ever renders the first ActiveWindow of them.
//
// Nothing in this package allocates, locks or returns errors after Prepare.
package modal
