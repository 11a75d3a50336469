// Package testutil holds signal generators and tolerance assertions shared by
// package tests.
package testutil

import "math"

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// MaxStep returns the largest absolute difference between consecutive samples.
func MaxStep(x []float64) float64 {
	maxStep := 0.0
	for i := 1; i < len(x); i++ {
		if d := math.Abs(x[i] - x[i-1]); d > maxStep {
			maxStep = d
		}
	}
	return maxStep
}

// MaxSineStep returns the largest sample-to-sample change a sine of the given
// frequency and amplitude can produce: 2*A*sin(π*f/fs).
func MaxSineStep(freqHz, sampleRate, amplitude float64) float64 {
	return 2 * math.Abs(amplitude) * math.Sin(math.Pi*freqHz/sampleRate)
}
