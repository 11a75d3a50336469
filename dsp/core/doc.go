// Package core holds small shared building blocks used by every processor in
// the module: the processing spec (sample rate, block size, channel count),
// decibel/linear conversions and slice helpers for allocation-free hot paths.
package core
