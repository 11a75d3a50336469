// Package buffer provides a planar multichannel sample block and a pool for
// allocation-friendly block processing. Every channel of a Block is a plain
// []float64 view with the same length, so per-channel processors can be
// handed a single channel without copying.
package buffer
