package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-binaural/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptySignal is returned when there is nothing to analyze.
	ErrEmptySignal = errors.New("analysis: empty signal")
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("analysis: invalid sample rate")
)

// Option configures spectral analysis.
type Option func(*options)

type options struct {
	window window.Type
}

// WithWindow selects the analysis window (default Hann).
func WithWindow(t window.Type) Option {
	return func(o *options) {
		if t.Valid() {
			o.window = t
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{window: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Spectrum is the one-sided power spectrum of a windowed signal.
type Spectrum struct {
	Power      []float64 // bins [0, FFTSize/2]
	FFTSize    int
	SampleRate float64
}

// BinHz returns the frequency spacing between bins.
func (s Spectrum) BinHz() float64 {
	return s.SampleRate / float64(s.FFTSize)
}

// PowerSpectrum windows samples (Hann unless overridden), zero-pads to the
// next power of two and returns the one-sided power spectrum.
func PowerSpectrum(samples []float64, sampleRate float64, opts ...Option) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, ErrEmptySignal
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Spectrum{}, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	fftSize := nextPowerOf2(len(samples))
	if fftSize < 2 {
		fftSize = 2
	}

	windowed := make([]float64, len(samples))
	copy(windowed, samples)
	window.Apply(applyOptions(opts).window, windowed)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("analysis: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("analysis: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := 0; k < bins; k++ {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return Spectrum{Power: power, FFTSize: fftSize, SampleRate: sampleRate}, nil
}

// PeakBin returns the strongest bin above DC.
func (s Spectrum) PeakBin() int {
	peak := 0
	peakPower := 0.0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > peakPower {
			peak = k
			peakPower = s.Power[k]
		}
	}
	return peak
}

// PeakFrequency returns the frequency of the strongest bin, refined by
// parabolic interpolation over the log power of its neighbours.
func (s Spectrum) PeakFrequency() float64 {
	k := s.PeakBin()
	if k == 0 {
		return 0
	}

	offset := 0.0
	if k > 0 && k < len(s.Power)-1 {
		a := logPower(s.Power[k-1])
		b := logPower(s.Power[k])
		c := logPower(s.Power[k+1])
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
		if offset > 0.5 || offset < -0.5 {
			offset = 0
		}
	}

	return (float64(k) + offset) * s.BinHz()
}

// DominantFrequency returns the frequency of the strongest spectral component
// of samples, excluding DC.
func DominantFrequency(samples []float64, sampleRate float64, opts ...Option) (float64, error) {
	spec, err := PowerSpectrum(samples, sampleRate, opts...)
	if err != nil {
		return 0, err
	}
	return spec.PeakFrequency(), nil
}

func logPower(p float64) float64 {
	const floor = 1e-300
	if p < floor {
		p = floor
	}
	return math.Log(p)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
