// Package synth is the real-time polyphonic modal synthesizer engine.
//
// An [Engine] owns a fixed pool of struck modal voices, a noise-excited
// plate resonator and the master bus. Any number of control goroutines
// enqueue [TriggerEvent] values and set global parameters; exactly one
// audio goroutine calls [Engine.Render]. The render path never blocks,
// allocates, locks or logs.
//
// Typical use:
//
//	eng, err := synth.New(synth.WithLogger(log))
//	if err != nil { ... }
//	if err := eng.Prepare(48000); err != nil { ... }
//	go controlLoop(eng)          // EnqueueTrigger, TriggerPlate, Set*
//	for { eng.Render(block) }    // audio goroutine
package synth
