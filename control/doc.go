// Package control maps upstream messages onto the synthesizer engine.
//
// Three message shapes arrive from the scene that drives the instrument:
// impacts become strikes, state updates steer the master bus, and plate
// updates feed the continuously excited plate. Settings carries the manual
// parameter changes an operator makes from a control surface.
package control
