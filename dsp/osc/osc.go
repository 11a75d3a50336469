// Package osc provides a phase-continuous sine oscillator.
package osc

import (
	"math"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/gain"
)

const (
	twoPi              = 2 * math.Pi
	defaultFrequencyHz = 440.0
)

// Oscillator generates a sine wave at a settable frequency and amplitude.
//
// The phase accumulator is advanced before each sample is taken, so the step
// into every output sample is the step of the frequency in effect for that
// sample. Changing the frequency or amplitude between blocks therefore never
// produces a phase discontinuity:
//
//	phase = (phase + 2π*f/fs) mod 2π
//	out   = amplitude * sin(phase)
type Oscillator struct {
	sampleRate  float64
	frequencyHz float64
	phase       float64
	phaseInc    float64
	amp         *gain.Stage
}

// New returns an oscillator at 440 Hz with unity amplitude, prepared for the
// default sample rate.
func New() *Oscillator {
	amp := gain.NewUnity()
	o := &Oscillator{
		sampleRate:  core.DefaultProcessorConfig().SampleRate,
		frequencyHz: defaultFrequencyHz,
		amp:         amp,
	}
	o.updatePhaseIncrement()
	return o
}

// Prepare stores the sample rate and resets the phase. Must be called before
// Process. The current frequency is kept when it is still below Nyquist and
// clamped to Nyquist otherwise.
func (o *Oscillator) Prepare(sampleRate float64, blockSize int) {
	if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
		o.sampleRate = sampleRate
	}
	if o.frequencyHz > o.sampleRate/2 {
		o.frequencyHz = o.sampleRate / 2
	}
	o.amp.Prepare(o.sampleRate, blockSize)
	o.updatePhaseIncrement()
	o.Reset()
}

// Reset zeroes the phase accumulator. Frequency and amplitude are unchanged.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.amp.Reset()
}

// SetFrequency sets the frequency in Hz. Values outside (0, sampleRate/2] are
// ignored and the previous frequency stays in effect.
func (o *Oscillator) SetFrequency(hz float64) {
	if !(hz > 0 && hz <= o.sampleRate/2) {
		return
	}
	o.frequencyHz = hz
	o.updatePhaseIncrement()
}

// SetAmplitude sets the linear output amplitude. Any finite value is accepted,
// including zero and negative values.
func (o *Oscillator) SetAmplitude(amplitude float64) {
	o.amp.SetGainLinear(amplitude)
}

// Process overwrites buf with the next len(buf) samples.
func (o *Oscillator) Process(buf []float64) {
	phase := o.phase
	for i := range buf {
		phase += o.phaseInc
		if phase >= twoPi {
			phase -= twoPi
		}
		buf[i] = math.Sin(phase)
	}
	o.phase = phase

	o.amp.ProcessChannel(buf)
}

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Frequency returns the frequency in effect in Hz.
func (o *Oscillator) Frequency() float64 { return o.frequencyHz }

// Amplitude returns the target linear amplitude.
func (o *Oscillator) Amplitude() float64 { return o.amp.GainLinear() }

// Phase returns the phase accumulator in radians, in [0, 2π).
func (o *Oscillator) Phase() float64 { return o.phase }

func (o *Oscillator) updatePhaseIncrement() {
	o.phaseInc = twoPi * o.frequencyHz / o.sampleRate
}
