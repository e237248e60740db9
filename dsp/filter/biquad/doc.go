// Package biquad provides the second-order recursion every resonant mode in
// the synthesizer is built from.
//
// A [Section] runs Direct Form II Transposed processing for one set of
// [Coefficients]. Coefficient design lives in dsp/filter/design.
package biquad
