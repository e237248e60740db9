// Package buffer provides the allocation-free plumbing between the control
// goroutines and the render goroutine: a bounded single-consumer ring for
// events and planar multi-channel sample frames sized once up front.
package buffer
