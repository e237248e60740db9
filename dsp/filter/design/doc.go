// Package design computes biquad coefficients for the resonant and formant
// filters used by the synthesizer voices and the plate.
//
// All designers use the RBJ bilinear-transform formulas and return
// coefficients consumable by dsp/filter/biquad.
package design
